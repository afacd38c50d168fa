// Package world provides the chunked tile world: fixed-size chunks and
// sub-chunks, coordinate math, and the creature and item records owned by
// the sub-chunk containing them.
package world

// GroundTile represents a single ground-layer tile.
type GroundTile uint8

const (
	// GroundEmpty is the sentinel returned for unloaded or out-of-range
	// positions. It is never walkable.
	GroundEmpty GroundTile = iota
	// GroundWall represents an impassable wall tile.
	GroundWall
	// GroundFloor represents plain damp carpet.
	GroundFloor
	// GroundFloorCardboard is a decorative floor variant.
	GroundFloorCardboard
	// GroundFloorPuddle is a decorative floor variant.
	GroundFloorPuddle
	// GroundDoorClosed blocks movement until opened.
	GroundDoorClosed
	// GroundDoorOpen is a passable doorway.
	GroundDoorOpen
	// GroundExitStairs leads down to the next level.
	GroundExitStairs
)

// IsWalkable returns true only for floor-like ground tiles. Walls, closed
// doors and the empty sentinel are not walkable.
func (t GroundTile) IsWalkable() bool {
	switch t {
	case GroundFloor, GroundFloorCardboard, GroundFloorPuddle, GroundDoorOpen, GroundExitStairs:
		return true
	default:
		return false
	}
}

// IsDoor returns true for both door states.
func (t GroundTile) IsDoor() bool {
	return t == GroundDoorClosed || t == GroundDoorOpen
}

// Rune returns the tile's display character.
func (t GroundTile) Rune() rune {
	switch t {
	case GroundWall:
		return '#'
	case GroundFloor:
		return '.'
	case GroundFloorCardboard:
		return ','
	case GroundFloorPuddle:
		return '~'
	case GroundDoorClosed:
		return '+'
	case GroundDoorOpen:
		return '\''
	case GroundExitStairs:
		return '>'
	default:
		return ' '
	}
}

// CeilingTile represents a single ceiling-layer tile.
type CeilingTile uint8

const (
	// CeilingEmpty is the sentinel for unloaded positions and open shafts.
	CeilingEmpty CeilingTile = iota
	// CeilingPlain is the default drop-tile ceiling.
	CeilingPlain
	// CeilingLight is a working fluorescent light.
	CeilingLight
	// CeilingLightBroken is a flickering, dead fluorescent light.
	CeilingLightBroken
	// CeilingStain is a decorative variant.
	CeilingStain
	// CeilingHole is a decorative variant.
	CeilingHole
)

// IsLight returns true for ceiling tiles that hold a light fixture.
func (t CeilingTile) IsLight() bool {
	return t == CeilingLight || t == CeilingLightBroken
}

// Layer selects between the two tile layers of a sub-chunk.
type Layer uint8

const (
	LayerGround Layer = iota
	LayerCeiling
)
