// Package worldgen synthesizes chunk tile content deterministically from the
// world seed. Generation is a pure function of its inputs: repeated calls
// with the same (seed, chunk key, corruption) produce bit-identical tiles,
// regardless of thread or ordering, so neighboring chunks generated
// independently agree at shared edges.
package worldgen

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/liminal/internal/telemetry"
	"github.com/samdwyer/liminal/internal/world"
)

const (
	// crossingDepth is how far a forced boundary corridor is carved inward.
	crossingDepth = 6
	// segment is the edge length covered by one forced crossing.
	segment = world.SubChunkSize
	// doorMinSpacing is the minimum chessboard distance between doors.
	doorMinSpacing = 6
	// exitStairsModulus: one chunk in this many carries exit stairs.
	exitStairsModulus = 7
)

// Generator synthesizes chunk content. It is stateless and safe to call from
// the generation worker goroutine.
type Generator struct{}

// NewGenerator creates a level generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateChunk builds the full tile content for one chunk. corruptionValue
// is a snapshot of the level's corruption taken when the request was
// enqueued; it scales hazard feature densities. The returned chunk is in
// the Generating state and owned by the caller.
func (g *Generator) GenerateChunk(ctx context.Context, key world.ChunkKey, seed int64, corruptionValue float64) *world.Chunk {
	tracer := telemetry.Tracer("worldgen")
	_, span := tracer.Start(ctx, "worldgen.generate_chunk")
	defer span.End()
	start := time.Now()

	rng := chunkRand(seed, key.Level, key.Coord.X, key.Coord.Y)

	// true = wall. Algorithms work on the flat grid; tiles are written once
	// the layout is final.
	var walls [world.ChunkSize][world.ChunkSize]bool
	for y := range walls {
		for x := range walls[y] {
			walls[y][x] = true
		}
	}

	carveMaze(&walls, rng)
	carveRooms(&walls, rng)
	carveBoundaryCrossings(&walls, seed, key)
	repairConnectivity(&walls)

	ch := world.NewChunk(key)
	ch.SetState(world.StateGenerating)
	origin := ch.Origin()
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			p := world.TilePos{X: origin.X + x, Y: origin.Y + y}
			if walls[y][x] {
				ch.SetGround(p, world.GroundWall)
			} else {
				ch.SetGround(p, world.GroundFloor)
			}
			ch.SetCeiling(p, world.CeilingPlain)
		}
	}

	placeDoors(ch, &walls, rng)
	placeLights(ch, rng, corruptionValue)
	sprinkleDecor(ch, rng, corruptionValue)
	placeExitStairs(ch, seed, key)

	span.SetAttributes(
		attribute.Int("chunk.x", key.Coord.X),
		attribute.Int("chunk.y", key.Coord.Y),
		attribute.Int("chunk.level", key.Level),
		attribute.Int("chunk.walkable_tiles", ch.WalkableCount()),
		attribute.Int64("chunk.generation_us", time.Since(start).Microseconds()),
	)
	return ch
}

type cell struct{ x, y int }

// carveMaze runs a recursive-backtracker maze on the odd-coordinate lattice
// using an explicit stack, so large mazes never risk deep recursion.
func carveMaze(walls *[world.ChunkSize][world.ChunkSize]bool, rng *rand.Rand) {
	stack := []cell{{1, 1}}
	walls[1][1] = false

	dirs := [4]cell{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	var candidates [4]cell

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		n := 0
		for _, d := range dirs {
			nx, ny := curr.x+d.x, curr.y+d.y
			if nx > 0 && nx < world.ChunkSize-1 && ny > 0 && ny < world.ChunkSize-1 && walls[ny][nx] {
				candidates[n] = d
				n++
			}
		}

		if n > 0 {
			d := candidates[rng.Intn(n)]
			walls[curr.y+d.y/2][curr.x+d.x/2] = false
			walls[curr.y+d.y][curr.x+d.x] = false
			stack = append(stack, cell{curr.x + d.x, curr.y + d.y})
		} else {
			stack = stack[:len(stack)-1]
		}
	}
}

// carveRooms opens a handful of rectangular rooms over the maze, mixing wide
// open spaces into the corridor texture.
func carveRooms(walls *[world.ChunkSize][world.ChunkSize]bool, rng *rand.Rand) {
	count := 6 + rng.Intn(8)
	for i := 0; i < count; i++ {
		w := 4 + rng.Intn(14)
		h := 4 + rng.Intn(14)
		x := 1 + rng.Intn(world.ChunkSize-w-2)
		y := 1 + rng.Intn(world.ChunkSize-h-2)
		for ry := y; ry < y+h; ry++ {
			for rx := x; rx < x+w; rx++ {
				walls[ry][rx] = false
			}
		}
	}
}

// carveBoundaryCrossings opens one corridor per 16-tile edge segment at a
// position hashed from the boundary's world-space coordinate. Both chunks
// sharing an edge hash the same line and segment, so their crossings align.
func carveBoundaryCrossings(walls *[world.ChunkSize][world.ChunkSize]bool, seed int64, key world.ChunkKey) {
	cx, cy := key.Coord.X, key.Coord.Y
	segs := world.ChunkSize / segment

	for seg := 0; seg < segs; seg++ {
		// West edge: boundary line x = cx*ChunkSize.
		off := crossingOffset(seed, key.Level, tagCrossingX, int64(cx)*world.ChunkSize, int64(cy*segs+seg))
		carveCrossing(walls, 0, seg*segment+off, 1, 0)

		// East edge: boundary line x = (cx+1)*ChunkSize.
		off = crossingOffset(seed, key.Level, tagCrossingX, int64(cx+1)*world.ChunkSize, int64(cy*segs+seg))
		carveCrossing(walls, world.ChunkSize-1, seg*segment+off, -1, 0)

		// North edge: boundary line y = cy*ChunkSize.
		off = crossingOffset(seed, key.Level, tagCrossingY, int64(cy)*world.ChunkSize, int64(cx*segs+seg))
		carveCrossing(walls, seg*segment+off, 0, 0, 1)

		// South edge: boundary line y = (cy+1)*ChunkSize.
		off = crossingOffset(seed, key.Level, tagCrossingY, int64(cy+1)*world.ChunkSize, int64(cx*segs+seg))
		carveCrossing(walls, seg*segment+off, world.ChunkSize-1, 0, -1)
	}
}

// crossingOffset returns the in-segment offset (1..segment-2) of a forced
// crossing, derived purely from world-space coordinates.
func crossingOffset(seed int64, level int, tag uint8, line, seg int64) int {
	return int(worldHash(seed, level, tag, line, seg)%(segment-2)) + 1
}

func carveCrossing(walls *[world.ChunkSize][world.ChunkSize]bool, x, y, dx, dy int) {
	for i := 0; i < crossingDepth; i++ {
		walls[y][x] = false
		x += dx
		y += dy
	}
}

// repairConnectivity flood-fills from one walkable tile and carves an
// L-shaped path to every unreached walkable region until the chunk is fully
// connected. Runs before the chunk is considered valid.
func repairConnectivity(walls *[world.ChunkSize][world.ChunkSize]bool) {
	var start cell
	found := false
	for y := 0; y < world.ChunkSize && !found; y++ {
		for x := 0; x < world.ChunkSize && !found; x++ {
			if !walls[y][x] {
				start = cell{x, y}
				found = true
			}
		}
	}
	if !found {
		return
	}

	for iter := 0; iter < 256; iter++ {
		var reached [world.ChunkSize][world.ChunkSize]bool
		floodFill(walls, &reached, start)

		unreached, ok := firstUnreached(walls, &reached)
		if !ok {
			return
		}
		carveLPath(walls, unreached, start)
	}
}

func floodFill(walls, reached *[world.ChunkSize][world.ChunkSize]bool, start cell) {
	queue := []cell{start}
	reached[start.y][start.x] = true
	dirs := [4]cell{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, d := range dirs {
			nx, ny := curr.x+d.x, curr.y+d.y
			if nx >= 0 && nx < world.ChunkSize && ny >= 0 && ny < world.ChunkSize &&
				!walls[ny][nx] && !reached[ny][nx] {
				reached[ny][nx] = true
				queue = append(queue, cell{nx, ny})
			}
		}
	}
}

func firstUnreached(walls, reached *[world.ChunkSize][world.ChunkSize]bool) (cell, bool) {
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			if !walls[y][x] && !reached[y][x] {
				return cell{x, y}, true
			}
		}
	}
	return cell{}, false
}

func carveLPath(walls *[world.ChunkSize][world.ChunkSize]bool, from, to cell) {
	x, y := from.x, from.y
	for x != to.x {
		walls[y][x] = false
		if to.x > x {
			x++
		} else {
			x--
		}
	}
	for y != to.y {
		walls[y][x] = false
		if to.y > y {
			y++
		} else {
			y--
		}
	}
	walls[y][x] = false
}
