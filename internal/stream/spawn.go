package stream

import (
	"github.com/samdwyer/liminal/internal/event"
	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/world"
)

// runSpawnPasses populates a freshly loaded chunk from its level's spawn
// tables. Each sub-chunk rolls each table once; when a roll fires, the type
// is a weighted-random selection across the table's entries. Runs after the
// chunk's points are in the navigation graph so reachability can veto
// dead-end spawns.
func (m *Manager) runSpawnPasses(ch *world.Chunk) {
	key := ch.Key()
	def := m.deps.Levels.Get(key.Level)

	for sy := 0; sy < world.SubChunksPerAxis; sy++ {
		for sx := 0; sx < world.SubChunksPerAxis; sx++ {
			if entry, ok := m.rollSpawn(key.Level, def.Creatures); ok {
				if pos, ok := m.randomWalkableIn(ch, sx, sy); ok {
					// Creatures boxed into a dead-end pocket would never
					// matter; skip candidates that can't reach the
					// surrounding chunks.
					if reachable, sampled := m.deps.Graph.SpawnReachability(key.Level, pos); sampled == 0 || reachable > 0 {
						m.SpawnCreature(entry.Type, key.Level, pos)
					}
				}
			}
			if entry, ok := m.rollSpawn(key.Level, def.Items); ok {
				if pos, ok := m.randomWalkableIn(ch, sx, sy); ok {
					ch.AddItem(world.NewItemRecord(entry.Type, pos))
				}
			}
		}
	}
}

// rollSpawn decides whether one spawn-table roll fires for a sub-chunk and,
// if so, which entry it produces. The chance of firing is the sum of the
// entries' corruption-scaled chances; the entry itself is selected at random
// weighted by scaled chance times threat weight, so rare heavy entries stay
// rare but punch above their base chance when picked against lighter ones.
func (m *Manager) rollSpawn(level int, table []gamedata.SpawnEntry) (*gamedata.SpawnEntry, bool) {
	if len(table) == 0 {
		return nil, false
	}
	total := 0.0
	weights := make([]float64, len(table))
	weightSum := 0.0
	for i := range table {
		p := m.deps.Tracker.SpawnProbability(level, table[i].BaseChance, table[i].CorruptionScale)
		total += p
		weights[i] = p * table[i].Weight()
		weightSum += weights[i]
	}
	if total > 1 {
		total = 1
	}
	if weightSum <= 0 || m.rng.Float64() >= total {
		return nil, false
	}
	pick := m.rng.Float64() * weightSum
	for i := range table {
		pick -= weights[i]
		if pick < 0 {
			return &table[i], true
		}
	}
	return &table[len(table)-1], true
}

// randomWalkableIn picks a uniform random walkable tile in one sub-chunk,
// excluding occupied tiles. Returns false if the sub-chunk is solid.
func (m *Manager) randomWalkableIn(ch *world.Chunk, sx, sy int) (world.TilePos, bool) {
	origin := ch.Origin()
	var candidates []world.TilePos
	for ly := 0; ly < world.SubChunkSize; ly++ {
		for lx := 0; lx < world.SubChunkSize; lx++ {
			p := world.TilePos{
				X: origin.X + sx*world.SubChunkSize + lx,
				Y: origin.Y + sy*world.SubChunkSize + ly,
			}
			if ch.IsWalkable(p) && ch.CreatureAt(p) == nil {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return world.TilePos{}, false
	}
	return candidates[m.rng.Intn(len(candidates))], true
}

// SpawnCreature creates a creature of a registered type on a tile of a
// loaded chunk and announces it. HP is scaled by the level's corruption at
// spawn time. Returns nil if the type is unknown or the chunk isn't loaded.
func (m *Manager) SpawnCreature(typeID string, level int, pos world.TilePos) *world.CreatureRecord {
	def := m.deps.Creatures.GetByID(typeID)
	if def == nil {
		return nil
	}
	ch := m.chunkAt(level, pos)
	if ch == nil {
		return nil
	}
	archetype, err := def.ArchetypeEnum()
	if err != nil {
		return nil
	}

	cr := world.NewCreatureRecord(typeID, archetype, pos, level, def.ScaledHP(m.deps.Tracker.Value(level)))
	cr.OnHealthChanged = func(c *world.CreatureRecord, delta int) {
		if delta < 0 {
			m.deps.Bus.Emit(event.CreatureDamaged{ID: c.ID, Amount: -delta, HP: c.HP})
		}
	}
	cr.OnDied = func(c *world.CreatureRecord) {
		m.deps.Bus.Emit(event.CreatureDied{ID: c.ID, Pos: c.Pos})
		if home := m.chunkAt(c.Level, c.Pos); home != nil {
			home.RemoveCreature(c)
		}
	}

	ch.AddCreature(cr)
	m.deps.Bus.Emit(event.CreatureSpawned{ID: cr.ID, Type: typeID, Pos: pos, Level: level})
	return cr
}
