package world

const (
	// ChunkSize is the side length of a chunk in tiles.
	ChunkSize = 128
	// SubChunkSize is the side length of a sub-chunk in tiles.
	SubChunkSize = 16
	// SubChunksPerAxis is the number of sub-chunks along each chunk axis.
	SubChunksPerAxis = ChunkSize / SubChunkSize
)

// TilePos is an absolute tile position in world space.
type TilePos struct {
	X, Y int
}

// Add returns the position offset by dx, dy.
func (p TilePos) Add(dx, dy int) TilePos {
	return TilePos{p.X + dx, p.Y + dy}
}

// ChebyshevDist returns the chessboard distance to another tile.
func (p TilePos) ChebyshevDist(o TilePos) int {
	dx := absInt(p.X - o.X)
	dy := absInt(p.Y - o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// ChunkCoord is an integer chunk-grid coordinate.
type ChunkCoord struct {
	X, Y int
}

// ChebyshevDist returns the chessboard distance to another chunk coordinate.
func (c ChunkCoord) ChebyshevDist(o ChunkCoord) int {
	dx := absInt(c.X - o.X)
	dy := absInt(c.Y - o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// ChunkKey identifies a chunk: its grid coordinate plus the level it belongs
// to. Exactly one live chunk exists per key while loaded.
type ChunkKey struct {
	Coord ChunkCoord
	Level int
}

// ChunkCoordOf returns the chunk-grid coordinate containing a world tile.
// Floor division, correct for negative coordinates.
func ChunkCoordOf(p TilePos) ChunkCoord {
	return ChunkCoord{floorDiv(p.X, ChunkSize), floorDiv(p.Y, ChunkSize)}
}

// ChunkOrigin returns the world position of a chunk's (0,0) tile.
func ChunkOrigin(c ChunkCoord) TilePos {
	return TilePos{c.X * ChunkSize, c.Y * ChunkSize}
}

// LocalInChunk converts a world tile position to chunk-local coordinates in
// [0, ChunkSize). Positive modulo, correct for negative coordinates.
func LocalInChunk(p TilePos) (int, int) {
	return posMod(p.X, ChunkSize), posMod(p.Y, ChunkSize)
}

// LocalInSubChunk converts a world tile position to sub-chunk-local
// coordinates in [0, SubChunkSize).
func LocalInSubChunk(p TilePos) (int, int) {
	return posMod(p.X, SubChunkSize), posMod(p.Y, SubChunkSize)
}

func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

func posMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
