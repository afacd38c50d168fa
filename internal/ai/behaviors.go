package ai

import (
	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/world"
)

// stationaryBehavior does nothing. Mannequins are scenery until something
// else damages them, and even then they stay put.
func stationaryBehavior(r *Runner, cr *world.CreatureRecord, def *gamedata.CreatureDef, player world.TilePos) {
}

// swarmerBehavior chases the player and bites in melee.
func swarmerBehavior(r *Runner, cr *world.CreatureRecord, def *gamedata.CreatureDef, player world.TilePos) {
	r.senseGoal(cr, def, player)

	if cr.Pos.ChebyshevDist(player) == 1 {
		if cr.AttackCool == 0 && r.lineOfSight(cr.Level, cr.Pos, player) {
			r.attackPlayer(cr, def, player)
			return
		}
		// On cooldown: hold, or sidle to another tile still in reach, so a
		// pack doesn't freeze in place while it waits.
		if r.rng.Float64() < 0.5 {
			if p, ok := r.shuffleTile(cr, player); ok {
				r.w.MoveCreature(cr, p)
			}
		}
		return
	}
	if !cr.HasGoal {
		return
	}
	r.moveToward(cr, cr.LastKnownGoal, player)
	if cr.Pos == cr.LastKnownGoal {
		// Arrived where the player last was; nothing here. Give up.
		cr.HasGoal = false
	}
}

// motherBehavior guards its brood: it spawns minions while agitated, fights
// when cornered, and otherwise lumbers toward the player.
func motherBehavior(r *Runner, cr *world.CreatureRecord, def *gamedata.CreatureDef, player world.TilePos) {
	r.senseGoal(cr, def, player)
	if cr.HasGoal {
		// An agitated mother lumbers faster.
		cr.MovesLeft = def.MoveBudget + 1
	}

	if cr.Pos.ChebyshevDist(player) == 1 && cr.AttackCool == 0 && r.lineOfSight(cr.Level, cr.Pos, player) {
		r.attackPlayer(cr, def, player)
		return
	}

	if cr.HasGoal && cr.SpawnCool == 0 && def.Spawns != "" {
		if pos, ok := r.freeAdjacent(cr, player); ok {
			if minion := r.w.SpawnCreature(def.Spawns, cr.Level, pos); minion != nil {
				// The newborn waits a turn before joining the swarm.
				minion.ForcedWait = true
				cr.SpawnCool = def.SpawnCooldown
				cr.ForcedWait = true
				return
			}
		}
	}

	if cr.HasGoal {
		r.moveToward(cr, cr.LastKnownGoal, player)
		return
	}
	r.wander(cr, player)
}

// wander drifts one tile in a random free direction. Keeps an unprovoked
// mother slowly migrating instead of standing where she spawned.
func (r *Runner) wander(cr *world.CreatureRecord, player world.TilePos) {
	var options []world.TilePos
	for _, d := range stepOrder {
		p := cr.Pos.Add(d[0], d[1])
		if r.tileFree(cr.Level, p, player) && r.diagonalOK(cr.Level, cr.Pos, d) {
			options = append(options, p)
		}
	}
	if len(options) == 0 {
		return
	}
	r.w.MoveCreature(cr, options[r.rng.Intn(len(options))])
}

// shuffleTile picks a random free neighbor that keeps the creature adjacent
// to the player.
func (r *Runner) shuffleTile(cr *world.CreatureRecord, player world.TilePos) (world.TilePos, bool) {
	var options []world.TilePos
	for _, d := range stepOrder {
		p := cr.Pos.Add(d[0], d[1])
		if p.ChebyshevDist(player) == 1 && r.tileFree(cr.Level, p, player) && r.diagonalOK(cr.Level, cr.Pos, d) {
			options = append(options, p)
		}
	}
	if len(options) == 0 {
		return world.TilePos{}, false
	}
	return options[r.rng.Intn(len(options))], true
}

// freeAdjacent returns an unoccupied walkable cardinal neighbor, preferring
// the first in scan order for reproducibility.
func (r *Runner) freeAdjacent(cr *world.CreatureRecord, player world.TilePos) (world.TilePos, bool) {
	for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		p := cr.Pos.Add(d[0], d[1])
		if r.tileFree(cr.Level, p, player) {
			return p, true
		}
	}
	return world.TilePos{}, false
}

// tileFree reports whether a creature may step onto a tile: walkable, not
// occupied by another creature, and not the player's tile.
func (r *Runner) tileFree(level int, p, player world.TilePos) bool {
	return p != player && r.w.IsWalkable(level, p) && r.w.CreatureAt(level, p) == nil
}
