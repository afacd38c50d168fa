package world

// ChunkState is the chunk lifecycle.
type ChunkState uint8

const (
	StateUngenerated ChunkState = iota
	StateGenerating
	StateLoaded
	StateUnloading
)

// String returns a human-readable state name.
func (s ChunkState) String() string {
	switch s {
	case StateUngenerated:
		return "ungenerated"
	case StateGenerating:
		return "generating"
	case StateLoaded:
		return "loaded"
	case StateUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}

// Chunk is a 128x128 tile region keyed by (chunk coordinate, level). It owns
// a fixed 8x8 array of SubChunks. A chunk is built entirely by one goroutine
// before being handed over; after handoff only the main thread touches it.
type Chunk struct {
	key       ChunkKey
	state     ChunkState
	subChunks [SubChunksPerAxis * SubChunksPerAxis]SubChunk
	walkable  int // cached walkable tile count, maintained by SetTile
}

// NewChunk creates an empty chunk (all ground tiles are the empty sentinel).
func NewChunk(key ChunkKey) *Chunk {
	return &Chunk{key: key, state: StateUngenerated}
}

// Key returns the chunk's identity.
func (c *Chunk) Key() ChunkKey { return c.key }

// State returns the chunk's lifecycle state.
func (c *Chunk) State() ChunkState { return c.state }

// SetState advances the chunk's lifecycle state.
func (c *Chunk) SetState(s ChunkState) { c.state = s }

// Origin returns the world position of the chunk's (0,0) tile.
func (c *Chunk) Origin() TilePos { return ChunkOrigin(c.key.Coord) }

// WalkableCount returns the number of walkable ground tiles.
func (c *Chunk) WalkableCount() int { return c.walkable }

// contains reports whether the world position falls inside this chunk.
func (c *Chunk) contains(p TilePos) bool {
	return ChunkCoordOf(p) == c.key.Coord
}

// subChunkAt returns the sub-chunk holding the world position plus the
// sub-chunk-local coordinates. The position must be inside the chunk.
func (c *Chunk) subChunkAt(p TilePos) (*SubChunk, int, int) {
	cx, cy := LocalInChunk(p)
	si := (cy/SubChunkSize)*SubChunksPerAxis + cx/SubChunkSize
	return &c.subChunks[si], cx % SubChunkSize, cy % SubChunkSize
}

// SubChunk returns the sub-chunk at sub-chunk-grid coordinates (0-7, 0-7),
// or nil if out of range.
func (c *Chunk) SubChunk(sx, sy int) *SubChunk {
	if sx < 0 || sx >= SubChunksPerAxis || sy < 0 || sy >= SubChunksPerAxis {
		return nil
	}
	return &c.subChunks[sy*SubChunksPerAxis+sx]
}

// Ground returns the ground tile at a world position. Out-of-chunk positions
// return the GroundEmpty sentinel; this is a hot path and never allocates.
func (c *Chunk) Ground(p TilePos) GroundTile {
	if !c.contains(p) {
		return GroundEmpty
	}
	s, lx, ly := c.subChunkAt(p)
	return s.Ground(lx, ly)
}

// Ceiling returns the ceiling tile at a world position, or the CeilingEmpty
// sentinel for out-of-chunk positions.
func (c *Chunk) Ceiling(p TilePos) CeilingTile {
	if !c.contains(p) {
		return CeilingEmpty
	}
	s, lx, ly := c.subChunkAt(p)
	return s.Ceiling(lx, ly)
}

// IsWalkable reports whether the ground tile at a world position is
// walkable. Out-of-chunk positions are not walkable.
func (c *Chunk) IsWalkable(p TilePos) bool {
	return c.Ground(p).IsWalkable()
}

// SetGround sets the ground tile at a world position. Out-of-chunk positions
// are a silent no-op so a background generator can overshoot safely.
func (c *Chunk) SetGround(p TilePos, t GroundTile) {
	if !c.contains(p) {
		return
	}
	s, lx, ly := c.subChunkAt(p)
	was := s.Ground(lx, ly).IsWalkable()
	s.SetGround(lx, ly, t)
	if now := t.IsWalkable(); now != was {
		if now {
			c.walkable++
		} else {
			c.walkable--
		}
	}
}

// SetCeiling sets the ceiling tile at a world position. Out-of-chunk
// positions are a silent no-op.
func (c *Chunk) SetCeiling(p TilePos, t CeilingTile) {
	if !c.contains(p) {
		return
	}
	s, lx, ly := c.subChunkAt(p)
	s.SetCeiling(lx, ly, t)
}

// AddCreature inserts a creature record into the sub-chunk containing its
// current tile. Returns false if the creature's tile is outside this chunk.
func (c *Chunk) AddCreature(cr *CreatureRecord) bool {
	if !c.contains(cr.Pos) {
		return false
	}
	s, _, _ := c.subChunkAt(cr.Pos)
	s.addCreature(cr)
	return true
}

// RemoveCreature removes a creature record from the sub-chunk containing its
// current tile. Returns false if it was not present.
func (c *Chunk) RemoveCreature(cr *CreatureRecord) bool {
	if !c.contains(cr.Pos) {
		return false
	}
	s, _, _ := c.subChunkAt(cr.Pos)
	return s.removeCreature(cr)
}

// MoveCreature moves a creature to a new tile inside this chunk, migrating
// ownership between sub-chunks atomically: the record is removed from its
// old sub-chunk before insertion, so it is never duplicated or orphaned.
// Returns false (and leaves the record untouched) if either tile is outside
// this chunk or the record is not owned by its current sub-chunk.
func (c *Chunk) MoveCreature(cr *CreatureRecord, to TilePos) bool {
	if !c.contains(cr.Pos) || !c.contains(to) {
		return false
	}
	from, _, _ := c.subChunkAt(cr.Pos)
	dest, _, _ := c.subChunkAt(to)
	if from == dest {
		cr.Pos = to
		return true
	}
	if !from.removeCreature(cr) {
		return false
	}
	cr.Pos = to
	dest.addCreature(cr)
	return true
}

// AddItem inserts an item record into the sub-chunk containing its tile.
func (c *Chunk) AddItem(it *ItemRecord) bool {
	if !c.contains(it.Pos) {
		return false
	}
	s, _, _ := c.subChunkAt(it.Pos)
	s.addItem(it)
	return true
}

// RemoveItem removes an item record. Returns false if not present.
func (c *Chunk) RemoveItem(it *ItemRecord) bool {
	if !c.contains(it.Pos) {
		return false
	}
	s, _, _ := c.subChunkAt(it.Pos)
	return s.removeItem(it)
}

// CreatureAt returns the first creature record on the given tile, or nil.
func (c *Chunk) CreatureAt(p TilePos) *CreatureRecord {
	if !c.contains(p) {
		return nil
	}
	s, _, _ := c.subChunkAt(p)
	for _, cr := range s.creatures {
		if cr.Pos == p {
			return cr
		}
	}
	return nil
}

// EachCreature calls fn for every creature in the chunk. fn must not mutate
// sub-chunk membership while iterating.
func (c *Chunk) EachCreature(fn func(*CreatureRecord)) {
	for i := range c.subChunks {
		for _, cr := range c.subChunks[i].creatures {
			fn(cr)
		}
	}
}

// EachItem calls fn for every item in the chunk.
func (c *Chunk) EachItem(fn func(*ItemRecord)) {
	for i := range c.subChunks {
		for _, it := range c.subChunks[i].items {
			fn(it)
		}
	}
}

// EachWalkable calls fn for every walkable tile's world position.
func (c *Chunk) EachWalkable(fn func(TilePos)) {
	origin := c.Origin()
	for y := 0; y < ChunkSize; y++ {
		for x := 0; x < ChunkSize; x++ {
			p := TilePos{origin.X + x, origin.Y + y}
			if c.IsWalkable(p) {
				fn(p)
			}
		}
	}
}
