package gamedata

import (
	"fmt"

	"github.com/samdwyer/liminal/internal/world"
)

// CreatureDef defines a creature type loaded from JSON.
type CreatureDef struct {
	ID             string  `json:"id"`             // Unique identifier (e.g., "bacteria")
	Name           string  `json:"name"`           // Display name
	Symbol         string  `json:"symbol"`         // Single character for rendering
	Color          string  `json:"color"`          // Hex color (e.g., "#7CB342")
	Archetype      string  `json:"archetype"`      // Behavior archetype: stationary, swarmer, mother
	HP             int     `json:"hp"`             // Base hit points
	Attack         int     `json:"attack"`         // Damage dealt per landed attack
	SenseRange     int     `json:"senseRange"`     // Chessboard distance at which the player is noticed
	MoveBudget     int     `json:"moveBudget"`     // Tiles moved per turn
	AttackCooldown int     `json:"attackCooldown"` // Turns between attacks
	SpawnCooldown  int     `json:"spawnCooldown"`  // Turns between minion spawns (mother only)
	Spawns         string  `json:"spawns"`         // Minion creature ID (mother only)
	HPScale        float64 `json:"hpScale"`        // Per-point-of-corruption HP multiplier
}

// SymbolRune returns the symbol as a rune for rendering.
func (c *CreatureDef) SymbolRune() rune {
	if len(c.Symbol) == 0 {
		return '?'
	}
	return rune(c.Symbol[0])
}

// ArchetypeEnum maps the JSON archetype string to the world enum.
func (c *CreatureDef) ArchetypeEnum() (world.Archetype, error) {
	switch c.Archetype {
	case "stationary":
		return world.ArchetypeStationary, nil
	case "swarmer":
		return world.ArchetypeSwarmer, nil
	case "mother":
		return world.ArchetypeMother, nil
	}
	return 0, fmt.Errorf("creature %s: unknown archetype %q", c.ID, c.Archetype)
}

// ScaledHP returns hit points adjusted for the level's corruption at spawn
// time. Never drops below the base value.
func (c *CreatureDef) ScaledHP(corruption float64) int {
	hp := int(float64(c.HP) * (1 + corruption*c.HPScale))
	if hp < c.HP {
		return c.HP
	}
	return hp
}

// CreaturesFile represents the structure of creatures.json.
type CreaturesFile struct {
	Creatures []CreatureDef `json:"creatures"`
}

// LoadCreatures loads creature definitions from the embedded creatures.json file.
func LoadCreatures() ([]CreatureDef, error) {
	file, err := Load[CreaturesFile]("creatures.json")
	if err != nil {
		return nil, err
	}
	return file.Creatures, nil
}
