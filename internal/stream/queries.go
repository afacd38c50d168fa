package stream

import (
	"sort"

	"github.com/samdwyer/liminal/internal/event"
	"github.com/samdwyer/liminal/internal/world"
)

// chunkAt returns the loaded chunk containing a tile, or nil.
func (m *Manager) chunkAt(level int, pos world.TilePos) *world.Chunk {
	return m.loaded[world.ChunkKey{Coord: world.ChunkCoordOf(pos), Level: level}]
}

// Chunk returns a loaded chunk by key, or nil.
func (m *Manager) Chunk(key world.ChunkKey) *world.Chunk {
	return m.loaded[key]
}

// Ground returns the ground tile at a world position, or the GroundEmpty
// sentinel when the chunk isn't loaded.
func (m *Manager) Ground(level int, pos world.TilePos) world.GroundTile {
	ch := m.chunkAt(level, pos)
	if ch == nil {
		return world.GroundEmpty
	}
	return ch.Ground(pos)
}

// Ceiling returns the ceiling tile at a world position, or the CeilingEmpty
// sentinel when the chunk isn't loaded.
func (m *Manager) Ceiling(level int, pos world.TilePos) world.CeilingTile {
	ch := m.chunkAt(level, pos)
	if ch == nil {
		return world.CeilingEmpty
	}
	return ch.Ceiling(pos)
}

// IsWalkable reports whether a tile is walkable. Unloaded terrain is not.
func (m *Manager) IsWalkable(level int, pos world.TilePos) bool {
	return m.Ground(level, pos).IsWalkable()
}

// CreatureAt returns the creature on a tile, or nil.
func (m *Manager) CreatureAt(level int, pos world.TilePos) *world.CreatureRecord {
	ch := m.chunkAt(level, pos)
	if ch == nil {
		return nil
	}
	return ch.CreatureAt(pos)
}

// Creatures returns all creatures on a level in a stable order, so the AI
// loop acts them deterministically regardless of chunk map iteration.
func (m *Manager) Creatures(level int) []*world.CreatureRecord {
	var out []*world.CreatureRecord
	for key, ch := range m.loaded {
		if key.Level != level {
			continue
		}
		ch.EachCreature(func(cr *world.CreatureRecord) {
			out = append(out, cr)
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		if out[i].Pos.X != out[j].Pos.X {
			return out[i].Pos.X < out[j].Pos.X
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Items returns all items on a level. Order is unspecified; rendering
// doesn't care and nothing else iterates items.
func (m *Manager) Items(level int) []*world.ItemRecord {
	var out []*world.ItemRecord
	for key, ch := range m.loaded {
		if key.Level != level {
			continue
		}
		ch.EachItem(func(it *world.ItemRecord) {
			out = append(out, it)
		})
	}
	return out
}

// ItemAt returns the first item on a tile, or nil.
func (m *Manager) ItemAt(level int, pos world.TilePos) *world.ItemRecord {
	ch := m.chunkAt(level, pos)
	if ch == nil {
		return nil
	}
	var found *world.ItemRecord
	ch.EachItem(func(it *world.ItemRecord) {
		if found == nil && it.Pos == pos {
			found = it
		}
	})
	return found
}

// TakeItem removes and returns the first item on a tile, or nil.
func (m *Manager) TakeItem(level int, pos world.TilePos) *world.ItemRecord {
	it := m.ItemAt(level, pos)
	if it == nil {
		return nil
	}
	m.chunkAt(level, pos).RemoveItem(it)
	return it
}

// OpenDoor opens a closed door, updating the navigation graph in the same
// step so the new passage is immediately pathable.
func (m *Manager) OpenDoor(level int, pos world.TilePos) bool {
	ch := m.chunkAt(level, pos)
	if ch == nil || ch.Ground(pos) != world.GroundDoorClosed {
		return false
	}
	ch.SetGround(pos, world.GroundDoorOpen)
	m.deps.Graph.UpdateTile(level, pos, true)
	return true
}

// MoveCreature steps a creature to a tile, migrating chunk ownership when
// the step crosses a chunk boundary. Fails without side effects if the
// destination chunk isn't loaded or the record isn't where it claims.
func (m *Manager) MoveCreature(cr *world.CreatureRecord, to world.TilePos) bool {
	from := m.chunkAt(cr.Level, cr.Pos)
	if from == nil {
		return false
	}
	old := cr.Pos
	if world.ChunkCoordOf(to) == from.Key().Coord {
		if !from.MoveCreature(cr, to) {
			return false
		}
	} else {
		dest := m.chunkAt(cr.Level, to)
		if dest == nil {
			return false
		}
		if !from.RemoveCreature(cr) {
			return false
		}
		cr.Pos = to
		dest.AddCreature(cr)
	}
	m.deps.Bus.Emit(event.CreatureMoved{ID: cr.ID, From: old, To: to})
	return true
}
