package world

import (
	"github.com/google/uuid"
)

// Archetype is the closed set of creature behavior archetypes.
type Archetype uint8

const (
	// ArchetypeStationary never acts on its own.
	ArchetypeStationary Archetype = iota
	// ArchetypeSwarmer chases the player and attacks in melee.
	ArchetypeSwarmer
	// ArchetypeMother spawns swarmer minions and fights when cornered.
	ArchetypeMother

	// ArchetypeCount is the number of archetypes; behavior tables are sized
	// by it so a new archetype without a behavior fails to compile.
	ArchetypeCount
)

// String returns the archetype name.
func (a Archetype) String() string {
	switch a {
	case ArchetypeStationary:
		return "stationary"
	case ArchetypeSwarmer:
		return "swarmer"
	case ArchetypeMother:
		return "mother"
	default:
		return "unknown"
	}
}

// CreatureRecord is the canonical mutable state of one creature. It is owned
// exclusively by the SubChunk containing its current tile; all position
// changes go through Chunk.MoveCreature so ownership never duplicates.
//
// Consumers do not poke HP directly: damage and healing go through
// ApplyDamage/Heal so the change callbacks fire.
type CreatureRecord struct {
	ID        uuid.UUID
	Type      string // creature definition id, e.g. "bacteria"
	Archetype Archetype
	Pos       TilePos
	Level     int

	HP    int
	MaxHP int

	// Per-turn budgets and cooldowns, decremented by the AI loop.
	MovesLeft     int
	AttackCool    int
	SpawnCool     int
	ForcedWait    bool
	LastKnownGoal TilePos // last known player position
	HasGoal       bool

	// Change events. Nil callbacks are skipped.
	OnHealthChanged func(c *CreatureRecord, delta int)
	OnDied          func(c *CreatureRecord)
}

// NewCreatureRecord creates a creature record at the given tile.
func NewCreatureRecord(typeID string, archetype Archetype, pos TilePos, level, maxHP int) *CreatureRecord {
	return &CreatureRecord{
		ID:        uuid.New(),
		Type:      typeID,
		Archetype: archetype,
		Pos:       pos,
		Level:     level,
		HP:        maxHP,
		MaxHP:     maxHP,
	}
}

// IsAlive returns true if the creature has HP remaining.
func (c *CreatureRecord) IsAlive() bool { return c.HP > 0 }

// ApplyDamage reduces HP, fires change events, and returns the actual damage
// taken. OnDied fires at most once, when HP reaches zero.
func (c *CreatureRecord) ApplyDamage(amount int) int {
	if amount <= 0 || c.HP <= 0 {
		return 0
	}
	actual := amount
	if actual > c.HP {
		actual = c.HP
	}
	c.HP -= actual
	if c.OnHealthChanged != nil {
		c.OnHealthChanged(c, -actual)
	}
	if c.HP == 0 && c.OnDied != nil {
		c.OnDied(c)
	}
	return actual
}

// Heal restores HP up to MaxHP and returns the actual amount healed.
func (c *CreatureRecord) Heal(amount int) int {
	if amount <= 0 || c.HP <= 0 {
		return 0
	}
	actual := amount
	if c.HP+actual > c.MaxHP {
		actual = c.MaxHP - c.HP
	}
	c.HP += actual
	if actual > 0 && c.OnHealthChanged != nil {
		c.OnHealthChanged(c, actual)
	}
	return actual
}

// CreatureSnapshot is the serialize-for-debugging view of a creature. It is
// a copy: mutating it never touches live state.
type CreatureSnapshot struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Archetype  string  `json:"archetype"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Level      int     `json:"level"`
	HP         int     `json:"hp"`
	MaxHP      int     `json:"maxHp"`
	AttackCool int     `json:"attackCooldown"`
	SpawnCool  int     `json:"spawnCooldown"`
	ForcedWait bool    `json:"forcedWait"`
	Goal       *[2]int `json:"lastKnownGoal,omitempty"`
}

// DebugSnapshot returns a serializable copy of the creature's state.
func (c *CreatureRecord) DebugSnapshot() CreatureSnapshot {
	s := CreatureSnapshot{
		ID:         c.ID.String(),
		Type:       c.Type,
		Archetype:  c.Archetype.String(),
		X:          c.Pos.X,
		Y:          c.Pos.Y,
		Level:      c.Level,
		HP:         c.HP,
		MaxHP:      c.MaxHP,
		AttackCool: c.AttackCool,
		SpawnCool:  c.SpawnCool,
		ForcedWait: c.ForcedWait,
	}
	if c.HasGoal {
		s.Goal = &[2]int{c.LastKnownGoal.X, c.LastKnownGoal.Y}
	}
	return s
}

// ItemRecord is a world item lying on a tile, owned by the sub-chunk
// containing that tile.
type ItemRecord struct {
	ID   uuid.UUID
	Type string // item definition id, e.g. "almond_water"
	Pos  TilePos
}

// NewItemRecord creates an item record at the given tile.
func NewItemRecord(typeID string, pos TilePos) *ItemRecord {
	return &ItemRecord{ID: uuid.New(), Type: typeID, Pos: pos}
}
