package game

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/liminal/internal/ai"
	"github.com/samdwyer/liminal/internal/corruption"
	"github.com/samdwyer/liminal/internal/event"
	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/nav"
	"github.com/samdwyer/liminal/internal/stream"
	"github.com/samdwyer/liminal/internal/telemetry"
	"github.com/samdwyer/liminal/internal/ui"
	"github.com/samdwyer/liminal/internal/world"
	"github.com/samdwyer/liminal/internal/worldgen"
)

// Game wires the streaming engine, the AI, and the terminal together and
// runs the turn loop: player acts, world settles, creatures act, render.
type Game struct {
	cfg      Config
	seed     int64
	screen   *ui.Screen
	renderer *ui.Renderer

	bus     *event.Bus
	tracker *corruption.Tracker
	worker  *stream.Worker
	manager *stream.Manager
	runner  *ai.Runner
	levels  *gamedata.LevelRegistry
	items   *gamedata.ItemRegistry

	player  *Player
	state   State
	message string
	running bool
}

// New creates a game instance with a live terminal screen.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	seed := cfg.EffectiveSeed()
	bus := event.NewBus()
	tracker := corruption.NewTracker()
	levels := gamedata.MustLoadLevelRegistry()
	creatures := gamedata.MustLoadCreatureRegistry()
	items := gamedata.MustLoadItemRegistry()

	worker := stream.NewWorker(worldgen.NewGenerator())
	manager := stream.NewManager(stream.DefaultConfig(seed), stream.Deps{
		Worker:    worker,
		Graph:     nav.NewGraph(),
		Tracker:   tracker,
		Levels:    levels,
		Creatures: creatures,
		Items:     items,
		Bus:       bus,
	})

	g := &Game{
		cfg:      cfg,
		seed:     seed,
		screen:   screen,
		renderer: ui.NewRenderer(screen, creatures, items),
		bus:      bus,
		tracker:  tracker,
		worker:   worker,
		manager:  manager,
		runner:   ai.NewRunner(manager, creatures, bus, seed),
		levels:   levels,
		items:    items,
		state:    StateExplore,
		running:  true,
	}
	bus.Subscribe(g.onEvent)
	return g, nil
}

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	ctx, initSpan := tracer.Start(ctx, "game.init")
	g.player = NewPlayer(world.TilePos{X: world.ChunkSize / 2, Y: world.ChunkSize / 2})
	g.manager.Update(ctx, g.player.Level, g.player.Pos)
	if err := g.manager.Settle(ctx); err != nil {
		initSpan.End()
		g.cleanup()
		return err
	}
	g.player.Pos = g.findStart(g.player.Level, g.player.Pos)
	g.message = "You no-clip into the walls. Find the stairs down."
	initSpan.SetAttributes(
		attribute.Int64("game.seed", g.seed),
		attribute.Int("player.start_x", g.player.Pos.X),
		attribute.Int("player.start_y", g.player.Pos.Y),
	)
	initSpan.End()

	for g.running {
		g.render()
		if err := g.handleInput(ctx); err != nil {
			g.cleanup()
			return err
		}
	}

	g.cleanup()
	return nil
}

func (g *Game) cleanup() {
	g.worker.Stop()
	g.screen.Close()
}

func (g *Game) render() {
	def := g.levels.Get(g.player.Level)
	g.renderer.Render(ui.Frame{
		World:      g.manager,
		Level:      g.player.Level,
		LevelName:  def.Name,
		Player:     g.player.Pos,
		PlayerHP:   g.player.HP,
		PlayerMax:  g.player.MaxHP,
		Corruption: g.tracker.Value(g.player.Level),
		Turn:       g.manager.Turn(),
		Message:    g.message,
	})
}

// findStart scans outward from a tile for the nearest walkable one.
func (g *Game) findStart(level int, from world.TilePos) world.TilePos {
	if g.manager.IsWalkable(level, from) {
		return from
	}
	for r := 1; r < world.ChunkSize; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				p := from.Add(dx, dy)
				if g.manager.IsWalkable(level, p) {
					return p
				}
			}
		}
	}
	return from
}

// onEvent reacts to simulation events that concern the player directly.
func (g *Game) onEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.PlayerDamaged:
		g.player.ApplyDamage(e.Amount)
		g.message = fmt.Sprintf("Something strikes you for %d.", e.Amount)
		if !g.player.IsAlive() {
			g.state = StateDead
			g.message = "The hum of the lights fades. You are gone. (q to quit)"
		}
	case event.CreatureDied:
		g.message = "It collapses into the carpet."
	}
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) error {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return nil
}

// handleKeyEvent processes keyboard input. Arrow keys and hjkl move; yubn
// move diagonally.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return nil
	case tcell.KeyUp:
		return g.tryMove(ctx, 0, -1)
	case tcell.KeyDown:
		return g.tryMove(ctx, 0, 1)
	case tcell.KeyLeft:
		return g.tryMove(ctx, -1, 0)
	case tcell.KeyRight:
		return g.tryMove(ctx, 1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'h':
			return g.tryMove(ctx, -1, 0)
		case 'l':
			return g.tryMove(ctx, 1, 0)
		case 'k':
			return g.tryMove(ctx, 0, -1)
		case 'j':
			return g.tryMove(ctx, 0, 1)
		case 'y':
			return g.tryMove(ctx, -1, -1)
		case 'u':
			return g.tryMove(ctx, 1, -1)
		case 'b':
			return g.tryMove(ctx, -1, 1)
		case 'n':
			return g.tryMove(ctx, 1, 1)
		case '.':
			// Wait a turn.
			return g.advanceTurn(ctx)
		}
	}
	return nil
}

// tryMove resolves the player's action for this turn: bump-attack a
// creature, push open a door, pick up whatever is on the destination tile,
// descend stairs, or just step. Blocked moves cost nothing.
func (g *Game) tryMove(ctx context.Context, dx, dy int) error {
	if g.state != StateExplore {
		return nil
	}
	dest := g.player.Pos.Add(dx, dy)
	level := g.player.Level

	if cr := g.manager.CreatureAt(level, dest); cr != nil {
		dealt := cr.ApplyDamage(g.player.Attack)
		g.message = fmt.Sprintf("You strike the %s for %d.", cr.Type, dealt)
		return g.advanceTurn(ctx)
	}

	ground := g.manager.Ground(level, dest)
	if ground == world.GroundDoorClosed {
		g.manager.OpenDoor(level, dest)
		g.message = "You push the door open."
		return g.advanceTurn(ctx)
	}
	if !ground.IsWalkable() {
		return nil
	}
	if dx != 0 && dy != 0 &&
		!g.manager.IsWalkable(level, g.player.Pos.Add(dx, 0)) &&
		!g.manager.IsWalkable(level, g.player.Pos.Add(0, dy)) {
		// No squeezing through wall corners.
		return nil
	}

	g.player.Pos = dest
	if it := g.manager.TakeItem(level, dest); it != nil {
		g.pickUp(it.Type)
	}
	if ground == world.GroundExitStairs {
		return g.descend(ctx)
	}
	return g.advanceTurn(ctx)
}

// pickUp consumes an item on the spot. Inventory is a non-feature: the
// backrooms strip you of everything but what you can swallow.
func (g *Game) pickUp(typeID string) {
	def := g.items.GetByID(typeID)
	if def == nil {
		return
	}
	healed := g.player.Heal(def.Heal)
	g.message = fmt.Sprintf("You down the %s. (+%d HP)", def.Name, healed)
}

// descend moves the player one level deeper and streams the new level in.
func (g *Game) descend(ctx context.Context) error {
	g.player.Level++
	g.message = fmt.Sprintf("You take the stairs down. %s.", g.levels.Get(g.player.Level).Name)

	g.manager.Update(ctx, g.player.Level, g.player.Pos)
	if err := g.manager.Settle(ctx); err != nil {
		return err
	}
	g.player.Pos = g.findStart(g.player.Level, g.player.Pos)
	g.runner.RunTurn(ctx, g.player.Level, g.player.Pos)
	return nil
}

// advanceTurn runs the fixed turn pipeline after a player action: reconcile
// the streaming window, block until it settles, then let creatures act.
func (g *Game) advanceTurn(ctx context.Context) error {
	g.manager.Update(ctx, g.player.Level, g.player.Pos)
	if err := g.manager.Settle(ctx); err != nil {
		return err
	}
	g.runner.RunTurn(ctx, g.player.Level, g.player.Pos)
	return nil
}
