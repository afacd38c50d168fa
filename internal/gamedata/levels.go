package gamedata

// SpawnEntry is one row of a level's spawn table. baseChance scaled by the
// level's corruption drives how often the table fires at all; threatWeight
// biases which entry is picked when it does. A negative corruptionScale makes
// the entry scarcer as corruption rises.
type SpawnEntry struct {
	Type            string  `json:"type"`            // Creature or item ID
	BaseChance      float64 `json:"baseChance"`      // Probability per sub-chunk at zero corruption
	CorruptionScale float64 `json:"corruptionScale"` // Per-point-of-corruption chance multiplier
	ThreatWeight    float64 `json:"threatWeight"`    // Selection weight within the table; omitted means 1
}

// Weight returns the entry's selection weight, defaulting to 1 when the JSON
// omits it or carries a non-positive value.
func (e *SpawnEntry) Weight() float64 {
	if e.ThreatWeight <= 0 {
		return 1
	}
	return e.ThreatWeight
}

// LevelDef defines one numbered level loaded from JSON. Level numbers beyond
// the defined set wrap around, so descent never runs out of themes.
type LevelDef struct {
	ID                  int          `json:"id"`
	Name                string       `json:"name"`
	CorruptionIncrement float64      `json:"corruptionIncrement"` // Added on each first visit to a chunk
	Creatures           []SpawnEntry `json:"creatures"`
	Items               []SpawnEntry `json:"items"`
}

// LevelsFile represents the structure of levels.json.
type LevelsFile struct {
	Levels []LevelDef `json:"levels"`
}

// LoadLevels loads level definitions from the embedded levels.json file.
func LoadLevels() ([]LevelDef, error) {
	file, err := Load[LevelsFile]("levels.json")
	if err != nil {
		return nil, err
	}
	return file.Levels, nil
}
