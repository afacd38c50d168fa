// Package nav maintains the incrementally updated shortest-path graph over
// walkable tiles. A walkable tile has a point iff its chunk is currently
// loaded: points are added the turn a chunk loads and removed the turn it
// unloads, with no exceptions.
package nav

import (
	"github.com/samdwyer/liminal/internal/world"
)

// Handle identifies a graph point. Handles are small integers recycled
// through a free list, never raw pointers or positions.
type Handle int32

// NoHandle marks an absent point or edge slot.
const NoHandle Handle = -1

// Eight neighbor directions: cardinals first, then diagonals. Opposite
// direction is index^1.
var dirs = [8][2]int{
	{1, 0}, {-1, 0},
	{0, 1}, {0, -1},
	{1, 1}, {-1, -1},
	{-1, 1}, {1, -1},
}

type levelPos struct {
	level int
	pos   world.TilePos
}

type point struct {
	pos       world.TilePos
	level     int
	neighbors [8]Handle
	live      bool
}

// Graph is the navigable graph over all loaded chunks, across all levels.
type Graph struct {
	points      []point
	free        []Handle
	byPos       map[levelPos]Handle
	chunkPoints map[world.ChunkKey][]Handle
	liveCount   int
}

// NewGraph creates an empty navigation graph.
func NewGraph() *Graph {
	return &Graph{
		byPos:       make(map[levelPos]Handle),
		chunkPoints: make(map[world.ChunkKey][]Handle),
	}
}

// PointCount returns the number of live points.
func (g *Graph) PointCount() int { return g.liveCount }

// AllocatedHandles returns the total handle slots ever allocated. After
// repeated add/remove cycles of the same chunks this must not grow, because
// freed handles are reused before new ones are allocated.
func (g *Graph) AllocatedHandles() int { return len(g.points) }

// HasPoint reports whether a tile currently has a graph point.
func (g *Graph) HasPoint(level int, pos world.TilePos) bool {
	_, ok := g.byPos[levelPos{level, pos}]
	return ok
}

// AddChunk adds a point for every walkable tile of a loaded chunk and
// stitches edges to already-loaded neighboring chunks. Cost is proportional
// to the chunk's tile count, not to total graph size.
func (g *Graph) AddChunk(ch *world.Chunk) {
	key := ch.Key()
	ch.EachWalkable(func(p world.TilePos) {
		h := g.addPoint(key.Level, p)
		g.chunkPoints[key] = append(g.chunkPoints[key], h)
	})
}

// RemoveChunk removes every point belonging to a chunk, unlinking edges from
// neighboring chunks' points. Must run before the chunk memory is discarded.
func (g *Graph) RemoveChunk(key world.ChunkKey) {
	for _, h := range g.chunkPoints[key] {
		if g.points[h].live {
			g.removePoint(h)
		}
	}
	delete(g.chunkPoints, key)
}

// UpdateTile reconciles a single tile whose walkability changed while its
// chunk stayed loaded (a door opening, for example).
func (g *Graph) UpdateTile(level int, pos world.TilePos, walkable bool) {
	lp := levelPos{level, pos}
	h, exists := g.byPos[lp]
	if walkable && !exists {
		key := world.ChunkKey{Coord: world.ChunkCoordOf(pos), Level: level}
		nh := g.addPoint(level, pos)
		g.chunkPoints[key] = append(g.chunkPoints[key], nh)
		return
	}
	if !walkable && exists {
		key := world.ChunkKey{Coord: world.ChunkCoordOf(pos), Level: level}
		g.removePoint(h)
		pts := g.chunkPoints[key]
		for i, ph := range pts {
			if ph == h {
				pts[i] = pts[len(pts)-1]
				g.chunkPoints[key] = pts[:len(pts)-1]
				break
			}
		}
	}
}

// alloc returns a handle, reusing the free list before growing the arena.
func (g *Graph) alloc() Handle {
	if n := len(g.free); n > 0 {
		h := g.free[n-1]
		g.free = g.free[:n-1]
		return h
	}
	g.points = append(g.points, point{})
	return Handle(len(g.points) - 1)
}

// addPoint creates a point and links it to existing neighbors. A diagonal
// edge is added only if at least one flanking cardinal tile also has a
// point, so paths never cut wall corners.
func (g *Graph) addPoint(level int, pos world.TilePos) Handle {
	h := g.alloc()
	pt := &g.points[h]
	pt.pos = pos
	pt.level = level
	pt.live = true
	for i := range pt.neighbors {
		pt.neighbors[i] = NoHandle
	}
	g.byPos[levelPos{level, pos}] = h
	g.liveCount++

	for i, d := range dirs {
		nh, ok := g.byPos[levelPos{level, pos.Add(d[0], d[1])}]
		if !ok {
			continue
		}
		if i >= 4 && !g.diagonalAllowed(level, pos, d) {
			continue
		}
		pt.neighbors[i] = nh
		g.points[nh].neighbors[i^1] = h
	}

	// This point is a flanking cardinal for four diagonal pairs among its
	// neighbors; edges between them may have just become valid.
	g.reconcileFlankedDiagonals(level, pos, true)
	return h
}

// removePoint unlinks and frees a point, then drops any diagonal edges that
// were only valid because this point flanked them.
func (g *Graph) removePoint(h Handle) {
	pt := &g.points[h]
	level, pos := pt.level, pt.pos
	for i, nh := range pt.neighbors {
		if nh != NoHandle {
			g.points[nh].neighbors[i^1] = NoHandle
		}
	}
	pt.live = false
	delete(g.byPos, levelPos{level, pos})
	g.liveCount--
	g.free = append(g.free, h)

	g.reconcileFlankedDiagonals(level, pos, false)
}

// diagonalAllowed reports whether the diagonal step d from pos has at least
// one walkable flanking cardinal (present as a point).
func (g *Graph) diagonalAllowed(level int, pos world.TilePos, d [2]int) bool {
	if _, ok := g.byPos[levelPos{level, pos.Add(d[0], 0)}]; ok {
		return true
	}
	_, ok := g.byPos[levelPos{level, pos.Add(0, d[1])}]
	return ok
}

// reconcileFlankedDiagonals revalidates the four diagonal pairs that the
// tile at pos flanks, adding or removing their edges as the rule dictates.
func (g *Graph) reconcileFlankedDiagonals(level int, pos world.TilePos, added bool) {
	// Pairs of cardinal offsets from pos whose endpoints are diagonal to
	// each other and flanked by pos.
	pairs := [4][2][2]int{
		{{-1, 0}, {0, -1}},
		{{-1, 0}, {0, 1}},
		{{1, 0}, {0, -1}},
		{{1, 0}, {0, 1}},
	}
	for _, pr := range pairs {
		a := pos.Add(pr[0][0], pr[0][1])
		b := pos.Add(pr[1][0], pr[1][1])
		ha, okA := g.byPos[levelPos{level, a}]
		hb, okB := g.byPos[levelPos{level, b}]
		if !okA || !okB {
			continue
		}
		d := [2]int{b.X - a.X, b.Y - a.Y}
		di := dirIndex(d)
		if added {
			g.points[ha].neighbors[di] = hb
			g.points[hb].neighbors[di^1] = ha
		} else if !g.diagonalAllowed(level, a, d) {
			g.points[ha].neighbors[di] = NoHandle
			g.points[hb].neighbors[di^1] = NoHandle
		}
	}
}

func dirIndex(d [2]int) int {
	for i, v := range dirs {
		if v == d {
			return i
		}
	}
	return -1
}
