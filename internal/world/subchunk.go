package world

// SubChunk is a 16x16 tile region with two layers plus the creature and item
// records whose current tile falls inside it.
type SubChunk struct {
	ground    [SubChunkSize * SubChunkSize]GroundTile
	ceiling   [SubChunkSize * SubChunkSize]CeilingTile
	creatures []*CreatureRecord
	items     []*ItemRecord
}

func tileIndex(lx, ly int) int {
	return ly*SubChunkSize + lx
}

// Ground returns the ground tile at sub-chunk-local coordinates.
func (s *SubChunk) Ground(lx, ly int) GroundTile {
	return s.ground[tileIndex(lx, ly)]
}

// Ceiling returns the ceiling tile at sub-chunk-local coordinates.
func (s *SubChunk) Ceiling(lx, ly int) CeilingTile {
	return s.ceiling[tileIndex(lx, ly)]
}

// SetGround sets the ground tile at sub-chunk-local coordinates.
func (s *SubChunk) SetGround(lx, ly int, t GroundTile) {
	s.ground[tileIndex(lx, ly)] = t
}

// SetCeiling sets the ceiling tile at sub-chunk-local coordinates.
func (s *SubChunk) SetCeiling(lx, ly int, t CeilingTile) {
	s.ceiling[tileIndex(lx, ly)] = t
}

// Creatures returns the creatures currently residing in this sub-chunk.
// The returned slice is the live backing store; callers must not retain it
// across mutations.
func (s *SubChunk) Creatures() []*CreatureRecord {
	return s.creatures
}

// Items returns the items currently residing in this sub-chunk.
func (s *SubChunk) Items() []*ItemRecord {
	return s.items
}

// addCreature inserts a creature record. Ownership checks live in Chunk.
func (s *SubChunk) addCreature(c *CreatureRecord) {
	s.creatures = append(s.creatures, c)
}

// removeCreature removes a creature record by identity. Returns true if the
// record was present.
func (s *SubChunk) removeCreature(c *CreatureRecord) bool {
	for i, existing := range s.creatures {
		if existing == c {
			s.creatures = append(s.creatures[:i], s.creatures[i+1:]...)
			return true
		}
	}
	return false
}

// addItem inserts an item record.
func (s *SubChunk) addItem(it *ItemRecord) {
	s.items = append(s.items, it)
}

// removeItem removes an item record by identity. Returns true if present.
func (s *SubChunk) removeItem(it *ItemRecord) bool {
	for i, existing := range s.items {
		if existing == it {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}
