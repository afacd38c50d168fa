package ai

import (
	"github.com/samdwyer/liminal/internal/world"
)

// lineOfSight traces a Bresenham line between two tiles and reports whether
// any intervening tile blocks sight. Endpoints never block. Unloaded ground
// is opaque, which conveniently keeps creatures from sensing across the edge
// of the loaded window.
func (r *Runner) lineOfSight(level int, from, to world.TilePos) bool {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	sx := sign(to.X - from.X)
	sy := sign(to.Y - from.Y)

	x, y := from.X, from.Y
	errAcc := dx - dy
	for {
		if x == to.X && y == to.Y {
			return true
		}
		p := world.TilePos{X: x, Y: y}
		if p != from && !r.w.IsWalkable(level, p) {
			return false
		}
		e2 := 2 * errAcc
		if e2 > -dy {
			errAcc -= dy
			x += sx
		}
		if e2 < dx {
			errAcc += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
