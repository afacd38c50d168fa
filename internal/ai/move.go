package ai

import (
	"github.com/samdwyer/liminal/internal/world"
)

// moveToward spends the creature's move budget stepping along a shortest
// path to goal, stopping once adjacent to the player.
func (r *Runner) moveToward(cr *world.CreatureRecord, goal, player world.TilePos) {
	for cr.MovesLeft > 0 {
		if cr.Pos.ChebyshevDist(player) <= 1 {
			return
		}
		next, ok := r.nextStep(cr, goal, player)
		if !ok {
			return
		}
		if !r.w.MoveCreature(cr, next) {
			return
		}
		cr.MovesLeft--
	}
}

// nextStep picks the creature's next tile: the next tile of a shortest path
// when one exists and is free, a sidestep around whoever is blocking it, or
// a greedy step when the goal isn't pathable (unloaded ground, say).
func (r *Runner) nextStep(cr *world.CreatureRecord, goal, player world.TilePos) (world.TilePos, bool) {
	path := r.w.Graph().ShortestPath(cr.Level, cr.Pos, goal)
	if len(path) >= 2 {
		next := path[1]
		if r.tileFree(cr.Level, next, player) {
			return next, true
		}
		if side, ok := r.sidestep(cr, goal, player, path); ok {
			return side, true
		}
		return world.TilePos{}, false
	}
	return r.greedyStep(cr, goal, player)
}

// sidestep routes around a blocked path tile. Candidates are scored: landing
// further along the computed path beats merely closing distance, so the
// creature rejoins its route past the blocker instead of hugging it.
func (r *Runner) sidestep(cr *world.CreatureRecord, goal, player world.TilePos, path []world.TilePos) (world.TilePos, bool) {
	onPath := make(map[world.TilePos]int, len(path))
	for i, p := range path {
		onPath[p] = i
	}
	curr := cr.Pos.ChebyshevDist(goal)

	var best world.TilePos
	bestScore := 0
	for _, d := range stepOrder {
		p := cr.Pos.Add(d[0], d[1])
		if !r.tileFree(cr.Level, p, player) || !r.diagonalOK(cr.Level, cr.Pos, d) {
			continue
		}
		score := 0
		if idx, ok := onPath[p]; ok && idx >= 2 {
			score += 2
		}
		if p.ChebyshevDist(goal) < curr {
			score++
		}
		if score > bestScore {
			best, bestScore = p, score
		}
	}
	return best, bestScore > 0
}

// stepOrder tries cardinals before diagonals.
var stepOrder = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, -1}, {-1, 1}, {1, -1},
}

// greedyStep walks straight at the goal without a path: the direct step
// first, then cardinals, then diagonals flanking the direct vector, then
// perpendiculars. Used when the goal has no navigation point yet.
func (r *Runner) greedyStep(cr *world.CreatureRecord, goal, player world.TilePos) (world.TilePos, bool) {
	dx, dy := sign(goal.X-cr.Pos.X), sign(goal.Y-cr.Pos.Y)
	if dx == 0 && dy == 0 {
		return world.TilePos{}, false
	}
	candidates := [][2]int{{dx, dy}, {dx, 0}, {0, dy}}
	switch {
	case dy == 0:
		candidates = append(candidates, [2]int{dx, 1}, [2]int{dx, -1}, [2]int{0, 1}, [2]int{0, -1})
	case dx == 0:
		candidates = append(candidates, [2]int{1, dy}, [2]int{-1, dy}, [2]int{1, 0}, [2]int{-1, 0})
	default:
		candidates = append(candidates, [2]int{dx, -dy}, [2]int{-dx, dy}, [2]int{0, -dy}, [2]int{-dx, 0})
	}
	for _, d := range candidates {
		if d[0] == 0 && d[1] == 0 {
			continue
		}
		p := cr.Pos.Add(d[0], d[1])
		if r.tileFree(cr.Level, p, player) && r.diagonalOK(cr.Level, cr.Pos, d) {
			return p, true
		}
	}
	return world.TilePos{}, false
}

// diagonalOK applies the same no-corner-cutting rule the navigation graph
// uses: a diagonal step needs at least one walkable flanking cardinal.
func (r *Runner) diagonalOK(level int, from world.TilePos, d [2]int) bool {
	if d[0] == 0 || d[1] == 0 {
		return true
	}
	return r.w.IsWalkable(level, from.Add(d[0], 0)) || r.w.IsWalkable(level, from.Add(0, d[1]))
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
