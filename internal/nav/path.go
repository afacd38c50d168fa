package nav

import (
	"github.com/samdwyer/liminal/internal/world"
)

// ShortestPath returns the ordered tile sequence from one tile to another,
// both endpoints included. Edges have uniform cost, so breadth-first search
// yields a shortest path. Returns an empty path if either endpoint has no
// point or the endpoints are not connected; it never fails otherwise.
func (g *Graph) ShortestPath(level int, from, to world.TilePos) []world.TilePos {
	src, ok := g.byPos[levelPos{level, from}]
	if !ok {
		return nil
	}
	dst, ok := g.byPos[levelPos{level, to}]
	if !ok {
		return nil
	}
	if src == dst {
		return []world.TilePos{from}
	}

	cameFrom := map[Handle]Handle{src: src}
	queue := []Handle{src}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if curr == dst {
			break
		}
		for _, nh := range g.points[curr].neighbors {
			if nh == NoHandle {
				continue
			}
			if _, seen := cameFrom[nh]; seen {
				continue
			}
			cameFrom[nh] = curr
			queue = append(queue, nh)
		}
	}

	if _, reached := cameFrom[dst]; !reached {
		return nil
	}

	var rev []world.TilePos
	for h := dst; ; h = cameFrom[h] {
		rev = append(rev, g.points[h].pos)
		if h == src {
			break
		}
	}
	path := make([]world.TilePos, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// Reachable reports whether a path exists between two tiles.
func (g *Graph) Reachable(level int, from, to world.TilePos) bool {
	return len(g.ShortestPath(level, from, to)) > 0
}

// PathLength returns the number of steps on a shortest path between two
// tiles, or -1 if no path exists.
func (g *Graph) PathLength(level int, from, to world.TilePos) int {
	path := g.ShortestPath(level, from, to)
	if len(path) == 0 {
		return -1
	}
	return len(path) - 1
}

// spawnSampleOffsets are the interior tiles sampled per neighboring chunk,
// one per quadrant.
var spawnSampleOffsets = [4][2]int{
	{world.ChunkSize / 4, world.ChunkSize / 4},
	{3 * world.ChunkSize / 4, world.ChunkSize / 4},
	{world.ChunkSize / 4, 3 * world.ChunkSize / 4},
	{3 * world.ChunkSize / 4, 3 * world.ChunkSize / 4},
}

// SpawnReachability samples interior points of each cardinally-adjacent
// chunk and reports how many are reachable from the candidate position,
// along with the number sampled. Sampled tiles without a graph point count
// as unreachable. Used to reject dead-end spawn candidates more robustly
// than a single sample point would.
func (g *Graph) SpawnReachability(level int, from world.TilePos) (reachable, sampled int) {
	src, ok := g.byPos[levelPos{level, from}]
	if !ok {
		return 0, 0
	}

	// One flood from the candidate; samples are then membership checks.
	seen := map[Handle]bool{src: true}
	queue := []Handle{src}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, nh := range g.points[curr].neighbors {
			if nh != NoHandle && !seen[nh] {
				seen[nh] = true
				queue = append(queue, nh)
			}
		}
	}

	base := world.ChunkCoordOf(from)
	for _, cd := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		origin := world.ChunkOrigin(world.ChunkCoord{X: base.X + cd[0], Y: base.Y + cd[1]})
		for _, off := range spawnSampleOffsets {
			sampled++
			target := world.TilePos{X: origin.X + off[0], Y: origin.Y + off[1]}
			h, ok := g.nearestPoint(level, target, 3)
			if ok && seen[h] {
				reachable++
			}
		}
	}
	return reachable, sampled
}

// nearestPoint finds a point at or near a tile, scanning outward up to the
// given chessboard radius.
func (g *Graph) nearestPoint(level int, pos world.TilePos, radius int) (Handle, bool) {
	if h, ok := g.byPos[levelPos{level, pos}]; ok {
		return h, true
	}
	for r := 1; r <= radius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if absMax(dx, dy) != r {
					continue
				}
				if h, ok := g.byPos[levelPos{level, pos.Add(dx, dy)}]; ok {
					return h, true
				}
			}
		}
	}
	return NoHandle, false
}

func absMax(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
