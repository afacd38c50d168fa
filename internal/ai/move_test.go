package ai

import (
	"testing"

	"github.com/samdwyer/liminal/internal/event"
	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/nav"
	"github.com/samdwyer/liminal/internal/world"
)

// fakeWorld is a wall map with an empty navigation graph, forcing movement
// through the greedy fallback.
type fakeWorld struct {
	graph *nav.Graph
	walls map[world.TilePos]bool
}

func newFakeWorld(walls ...world.TilePos) *fakeWorld {
	f := &fakeWorld{graph: nav.NewGraph(), walls: map[world.TilePos]bool{}}
	for _, w := range walls {
		f.walls[w] = true
	}
	return f
}

func (f *fakeWorld) IsWalkable(level int, pos world.TilePos) bool { return !f.walls[pos] }

func (f *fakeWorld) CreatureAt(level int, pos world.TilePos) *world.CreatureRecord { return nil }

func (f *fakeWorld) Creatures(level int) []*world.CreatureRecord { return nil }

func (f *fakeWorld) MoveCreature(cr *world.CreatureRecord, to world.TilePos) bool {
	cr.Pos = to
	return true
}

func (f *fakeWorld) SpawnCreature(typeID string, level int, pos world.TilePos) *world.CreatureRecord {
	return nil
}

func (f *fakeWorld) Graph() *nav.Graph { return f.graph }

func TestGreedyStepDiagonalFallbacks(t *testing.T) {
	goal := world.TilePos{X: 5, Y: 5}
	player := world.TilePos{X: 50, Y: 50}
	base := []world.TilePos{{X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	tests := []struct {
		name  string
		walls []world.TilePos
		want  world.TilePos
		ok    bool
	}{
		{
			// Direct diagonal and both cardinals blocked; the flanking
			// diagonal on the far side of the vector is open.
			name:  "flanking diagonal",
			walls: base,
			want:  world.TilePos{X: 1, Y: -1},
			ok:    true,
		},
		{
			name:  "other flanking diagonal",
			walls: append(append([]world.TilePos{}, base...), world.TilePos{X: 1, Y: -1}),
			want:  world.TilePos{X: -1, Y: 1},
			ok:    true,
		},
		{
			name: "perpendicular cardinal",
			walls: append(append([]world.TilePos{}, base...),
				world.TilePos{X: 1, Y: -1}, world.TilePos{X: -1, Y: 1}),
			want: world.TilePos{X: 0, Y: -1},
			ok:   true,
		},
		{
			name: "boxed in",
			walls: append(append([]world.TilePos{}, base...),
				world.TilePos{X: 1, Y: -1}, world.TilePos{X: -1, Y: 1},
				world.TilePos{X: 0, Y: -1}, world.TilePos{X: -1, Y: 0}),
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeWorld(tt.walls...)
			r := NewRunner(f, gamedata.MustLoadCreatureRegistry(), event.NewBus(), 1)
			cr := world.NewCreatureRecord("bacteria", world.ArchetypeSwarmer, world.TilePos{}, 0, 5)

			got, ok := r.greedyStep(cr, goal, player)
			if ok != tt.ok {
				t.Fatalf("greedyStep ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("greedyStep = %v, want %v", got, tt.want)
			}
		})
	}
}
