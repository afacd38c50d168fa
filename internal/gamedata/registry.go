package gamedata

import (
	"errors"
	"fmt"
)

// CreatureRegistry holds loaded creature definitions and provides lookup
// utilities.
type CreatureRegistry struct {
	creatures []CreatureDef
	byID      map[string]*CreatureDef
}

// NewCreatureRegistry creates a registry from loaded creature definitions,
// validating archetypes and minion references.
func NewCreatureRegistry(creatures []CreatureDef) (*CreatureRegistry, error) {
	r := &CreatureRegistry{
		creatures: creatures,
		byID:      make(map[string]*CreatureDef),
	}
	for i := range creatures {
		r.byID[creatures[i].ID] = &creatures[i]
	}
	for i := range creatures {
		c := &creatures[i]
		if _, err := c.ArchetypeEnum(); err != nil {
			return nil, err
		}
		if c.Spawns != "" && r.byID[c.Spawns] == nil {
			return nil, fmt.Errorf("creature %s: spawns unknown creature %q", c.ID, c.Spawns)
		}
	}
	return r, nil
}

// LoadCreatureRegistry loads and creates a registry from the embedded
// creatures.json.
func LoadCreatureRegistry() (*CreatureRegistry, error) {
	creatures, err := LoadCreatures()
	if err != nil {
		return nil, err
	}
	if len(creatures) == 0 {
		return nil, errors.New("no creatures loaded from creatures.json")
	}
	return NewCreatureRegistry(creatures)
}

// MustLoadCreatureRegistry loads a registry, panicking on error.
func MustLoadCreatureRegistry() *CreatureRegistry {
	registry, err := LoadCreatureRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the creature definition with the given ID, or nil if not found.
func (r *CreatureRegistry) GetByID(id string) *CreatureDef {
	return r.byID[id]
}

// All returns all creature definitions.
func (r *CreatureRegistry) All() []CreatureDef {
	return r.creatures
}

// Count returns the number of creature types in the registry.
func (r *CreatureRegistry) Count() int {
	return len(r.creatures)
}

// =============================================================================
// ItemRegistry
// =============================================================================

// ItemRegistry holds loaded item definitions and provides lookup utilities.
type ItemRegistry struct {
	items []ItemDef
	byID  map[string]*ItemDef
}

// NewItemRegistry creates a registry from loaded item definitions.
func NewItemRegistry(items []ItemDef) *ItemRegistry {
	r := &ItemRegistry{
		items: items,
		byID:  make(map[string]*ItemDef),
	}
	for i := range items {
		r.byID[items[i].ID] = &items[i]
	}
	return r
}

// LoadItemRegistry loads and creates a registry from the embedded items.json.
func LoadItemRegistry() (*ItemRegistry, error) {
	items, err := LoadItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no items loaded from items.json")
	}
	return NewItemRegistry(items), nil
}

// MustLoadItemRegistry loads a registry, panicking on error.
func MustLoadItemRegistry() *ItemRegistry {
	registry, err := LoadItemRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the item definition with the given ID, or nil if not found.
func (r *ItemRegistry) GetByID(id string) *ItemDef {
	return r.byID[id]
}

// All returns all item definitions.
func (r *ItemRegistry) All() []ItemDef {
	return r.items
}

// Count returns the number of item types in the registry.
func (r *ItemRegistry) Count() int {
	return len(r.items)
}

// =============================================================================
// LevelRegistry
// =============================================================================

// LevelRegistry holds loaded level definitions, addressed by level number.
type LevelRegistry struct {
	levels []LevelDef
}

// NewLevelRegistry creates a registry from loaded level definitions.
func NewLevelRegistry(levels []LevelDef) *LevelRegistry {
	return &LevelRegistry{levels: levels}
}

// LoadLevelRegistry loads and creates a registry from the embedded levels.json.
func LoadLevelRegistry() (*LevelRegistry, error) {
	levels, err := LoadLevels()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, errors.New("no levels loaded from levels.json")
	}
	return NewLevelRegistry(levels), nil
}

// MustLoadLevelRegistry loads a registry, panicking on error.
func MustLoadLevelRegistry() *LevelRegistry {
	registry, err := LoadLevelRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Get returns the definition for a level number. Numbers beyond the defined
// set wrap around, so every level has a definition.
func (r *LevelRegistry) Get(level int) *LevelDef {
	n := len(r.levels)
	idx := ((level % n) + n) % n
	return &r.levels[idx]
}

// Count returns the number of defined level themes.
func (r *LevelRegistry) Count() int {
	return len(r.levels)
}
