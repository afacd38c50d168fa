package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/world"
)

// WorldView is what the renderer reads from the streaming engine. Unloaded
// tiles come back as the empty sentinel and render as void.
type WorldView interface {
	Ground(level int, pos world.TilePos) world.GroundTile
	Ceiling(level int, pos world.TilePos) world.CeilingTile
	Creatures(level int) []*world.CreatureRecord
	Items(level int) []*world.ItemRecord
}

// Frame is everything one rendered frame needs.
type Frame struct {
	World      WorldView
	Level      int
	LevelName  string
	Player     world.TilePos
	PlayerHP   int
	PlayerMax  int
	Corruption float64
	Turn       int
	Message    string
}

// Renderer draws the world through a viewport centered on the player.
type Renderer struct {
	screen         *Screen
	creatureStyles map[string]tcell.Style
	creatureRunes  map[string]rune
	itemStyles     map[string]tcell.Style
	itemRunes      map[string]rune
}

// NewRenderer creates a renderer, resolving creature and item colors once up
// front.
func NewRenderer(screen *Screen, creatures *gamedata.CreatureRegistry, items *gamedata.ItemRegistry) *Renderer {
	r := &Renderer{
		screen:         screen,
		creatureStyles: make(map[string]tcell.Style),
		creatureRunes:  make(map[string]rune),
		itemStyles:     make(map[string]tcell.Style),
		itemRunes:      make(map[string]rune),
	}
	for _, c := range creatures.All() {
		r.creatureStyles[c.ID] = tcell.StyleDefault.Foreground(gamedata.MustParseHexColor(c.Color))
		r.creatureRunes[c.ID] = c.SymbolRune()
	}
	for _, it := range items.All() {
		r.itemStyles[it.ID] = tcell.StyleDefault.Foreground(gamedata.MustParseHexColor(it.Color))
		r.itemRunes[it.ID] = it.SymbolRune()
	}
	return r
}

// Render draws one frame: tiles, items, creatures, player, then the status
// and message lines on the bottom two rows.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()
	width, height := r.screen.Size()
	viewH := height - 2
	if viewH < 1 {
		viewH = height
	}

	// Camera keeps the player centered.
	camX := f.Player.X - width/2
	camY := f.Player.Y - viewH/2

	for sy := 0; sy < viewH; sy++ {
		for sx := 0; sx < width; sx++ {
			pos := world.TilePos{X: camX + sx, Y: camY + sy}
			ground := f.World.Ground(f.Level, pos)
			ceiling := f.World.Ceiling(f.Level, pos)
			r.screen.SetContent(sx, sy, ground.Rune(), r.tileStyle(ground, ceiling))
		}
	}

	draw := func(pos world.TilePos, ch rune, style tcell.Style) {
		sx, sy := pos.X-camX, pos.Y-camY
		if sx >= 0 && sx < width && sy >= 0 && sy < viewH {
			r.screen.SetContent(sx, sy, ch, style)
		}
	}

	for _, it := range f.World.Items(f.Level) {
		draw(it.Pos, r.itemRunes[it.Type], r.itemStyles[it.Type])
	}
	for _, cr := range f.World.Creatures(f.Level) {
		draw(cr.Pos, r.creatureRunes[cr.Type], r.creatureStyles[cr.Type])
	}
	draw(f.Player, '@', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))

	if height >= 2 {
		status := fmt.Sprintf("%s  HP %d/%d  corruption %.1f  turn %d",
			f.LevelName, f.PlayerHP, f.PlayerMax, f.Corruption, f.Turn)
		r.renderLine(status, height-2, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
		r.renderLine(f.Message, height-1, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}

	r.screen.Show()
}

// tileStyle shades a ground tile by what hangs above it: lit floor is
// brighter, floor under a dead fixture sits in the dark.
func (r *Renderer) tileStyle(ground world.GroundTile, ceiling world.CeilingTile) tcell.Style {
	switch ground {
	case world.GroundWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGoldenrod)
	case world.GroundDoorClosed, world.GroundDoorOpen:
		return tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	case world.GroundExitStairs:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	case world.GroundFloorPuddle:
		return tcell.StyleDefault.Foreground(tcell.ColorTeal)
	case world.GroundEmpty:
		return tcell.StyleDefault
	}
	switch ceiling {
	case world.CeilingLight:
		return tcell.StyleDefault.Foreground(tcell.ColorKhaki)
	case world.CeilingLightBroken:
		return tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorGray)
}

// renderLine writes a full-width line of text, padding with spaces.
func (r *Renderer) renderLine(msg string, y int, style tcell.Style) {
	width, _ := r.screen.Size()
	runes := []rune(msg)
	for x := 0; x < width; x++ {
		ch := ' '
		if x < len(runes) {
			ch = runes[x]
		}
		r.screen.SetContent(x, y, ch, style)
	}
}
