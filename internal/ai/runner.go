// Package ai drives creature turns. Each archetype has one behavior function;
// the table is sized by the archetype count so adding an archetype without a
// behavior fails to compile.
package ai

import (
	"context"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/liminal/internal/event"
	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/nav"
	"github.com/samdwyer/liminal/internal/telemetry"
	"github.com/samdwyer/liminal/internal/world"
)

// World is the slice of the streaming engine the AI reads and mutates.
// *stream.Manager satisfies it.
type World interface {
	IsWalkable(level int, pos world.TilePos) bool
	CreatureAt(level int, pos world.TilePos) *world.CreatureRecord
	Creatures(level int) []*world.CreatureRecord
	MoveCreature(cr *world.CreatureRecord, to world.TilePos) bool
	SpawnCreature(typeID string, level int, pos world.TilePos) *world.CreatureRecord
	Graph() *nav.Graph
}

// Runner executes one AI turn for every creature on the player's level.
type Runner struct {
	w    World
	defs *gamedata.CreatureRegistry
	bus  *event.Bus
	rng  *rand.Rand
}

// NewRunner creates a runner. The rng only breaks movement ties.
func NewRunner(w World, defs *gamedata.CreatureRegistry, bus *event.Bus, seed int64) *Runner {
	return &Runner{
		w:    w,
		defs: defs,
		bus:  bus,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

type behaviorFunc func(r *Runner, cr *world.CreatureRecord, def *gamedata.CreatureDef, player world.TilePos)

var behaviors = [world.ArchetypeCount]behaviorFunc{
	world.ArchetypeStationary: stationaryBehavior,
	world.ArchetypeSwarmer:    swarmerBehavior,
	world.ArchetypeMother:     motherBehavior,
}

// RunTurn acts every living creature on the level once, in the stable order
// the world reports them. Runs strictly after the streaming manager settles,
// so every creature stands on loaded ground.
func (r *Runner) RunTurn(ctx context.Context, level int, player world.TilePos) {
	tracer := telemetry.Tracer("ai")
	_, span := tracer.Start(ctx, "ai.run_turn")
	defer span.End()

	creatures := r.w.Creatures(level)
	acted := 0
	for _, cr := range creatures {
		if !cr.IsAlive() {
			continue
		}
		if cr.ForcedWait {
			// Recovery turn after an attack or a spawn.
			cr.ForcedWait = false
			continue
		}
		def := r.defs.GetByID(cr.Type)
		if def == nil {
			continue
		}
		if cr.AttackCool > 0 {
			cr.AttackCool--
		}
		if cr.SpawnCool > 0 {
			cr.SpawnCool--
		}
		cr.MovesLeft = def.MoveBudget
		behaviors[cr.Archetype](r, cr, def, player)
		acted++
	}

	span.SetAttributes(
		attribute.Int("ai.level", level),
		attribute.Int("ai.creatures", len(creatures)),
		attribute.Int("ai.acted", acted),
	)
}

// attackPlayer lands a melee hit and pays its costs: the cooldown restarts
// and the creature loses its next turn.
func (r *Runner) attackPlayer(cr *world.CreatureRecord, def *gamedata.CreatureDef, player world.TilePos) {
	r.bus.Emit(event.HitEffect{From: cr.Pos, Target: player, Damage: def.Attack})
	r.bus.Emit(event.PlayerDamaged{Amount: def.Attack})
	cr.AttackCool = def.AttackCooldown
	cr.ForcedWait = true
}

// sense updates the creature's goal if the player is within sense range and
// line of sight. The goal persists after contact breaks, so creatures chase
// the last place they saw the player.
func (r *Runner) senseGoal(cr *world.CreatureRecord, def *gamedata.CreatureDef, player world.TilePos) {
	if cr.Pos.ChebyshevDist(player) <= def.SenseRange && r.lineOfSight(cr.Level, cr.Pos, player) {
		cr.LastKnownGoal = player
		cr.HasGoal = true
	}
}
