package gamedata

// ItemDef defines a pickup item type loaded from JSON.
type ItemDef struct {
	ID     string `json:"id"`     // Unique identifier (e.g., "almond_water")
	Name   string `json:"name"`   // Display name
	Symbol string `json:"symbol"` // Single character for rendering
	Color  string `json:"color"`  // Hex color
	Heal   int    `json:"heal"`   // HP restored on use
}

// SymbolRune returns the symbol as a rune for rendering.
func (i *ItemDef) SymbolRune() rune {
	if len(i.Symbol) == 0 {
		return '?'
	}
	return rune(i.Symbol[0])
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// LoadItems loads item definitions from the embedded items.json file.
func LoadItems() ([]ItemDef, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}
