package worldgen

import (
	"encoding/binary"
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// Feature tags keep hash streams for different boundary features disjoint.
const (
	tagChunkInterior uint8 = iota
	tagCrossingX           // corridor crossings on vertical chunk boundaries
	tagCrossingY           // corridor crossings on horizontal chunk boundaries
	tagExitStairs
)

// worldHash derives a 64-bit value from the world seed, level id, a feature
// tag, and a pair of world-space coordinates. Any randomness that affects a
// boundary-crossing feature must come from here, never from a sequential
// stream, so independently generated neighbor chunks agree at shared edges.
func worldHash(seed int64, level int, tag uint8, a, b int64) uint64 {
	var buf [33]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(int64(level)))
	buf[16] = tag
	binary.LittleEndian.PutUint64(buf[17:25], uint64(a))
	binary.LittleEndian.PutUint64(buf[25:33], uint64(b))
	return xxhash.Sum64(buf[:])
}

// chunkRand returns the sequential stream for randomness confined to a
// chunk's interior. Interior features may consume it freely; boundary
// features may not.
func chunkRand(seed int64, level, cx, cy int) *rand.Rand {
	h := worldHash(seed, level, tagChunkInterior, int64(cx), int64(cy))
	return rand.New(rand.NewSource(int64(h)))
}
