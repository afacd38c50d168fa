package gamedata

import (
	"testing"

	"github.com/samdwyer/liminal/internal/world"
)

func TestLoadCreatureRegistry(t *testing.T) {
	r := MustLoadCreatureRegistry()
	if r.Count() == 0 {
		t.Fatal("no creatures loaded")
	}

	for _, c := range r.All() {
		if c.ID == "" || c.Name == "" || c.Symbol == "" {
			t.Errorf("creature %q has missing fields", c.ID)
		}
		if c.HP <= 0 {
			t.Errorf("creature %s has non-positive hp %d", c.ID, c.HP)
		}
		if _, err := c.ArchetypeEnum(); err != nil {
			t.Errorf("creature %s: %v", c.ID, err)
		}
		if _, err := ParseHexColor(c.Color); err != nil {
			t.Errorf("creature %s: bad color: %v", c.ID, err)
		}
	}

	mother := r.GetByID("brood_mother")
	if mother == nil {
		t.Fatal("brood_mother missing")
	}
	if a, _ := mother.ArchetypeEnum(); a != world.ArchetypeMother {
		t.Errorf("brood_mother archetype = %v, want mother", a)
	}
	if r.GetByID(mother.Spawns) == nil {
		t.Errorf("brood_mother spawns unknown creature %q", mother.Spawns)
	}
}

func TestCreatureRegistryRejectsBadData(t *testing.T) {
	if _, err := NewCreatureRegistry([]CreatureDef{
		{ID: "x", Archetype: "poltergeist", HP: 1},
	}); err == nil {
		t.Error("unknown archetype accepted")
	}
	if _, err := NewCreatureRegistry([]CreatureDef{
		{ID: "x", Archetype: "mother", HP: 1, Spawns: "nobody"},
	}); err == nil {
		t.Error("dangling minion reference accepted")
	}
}

func TestScaledHP(t *testing.T) {
	def := CreatureDef{HP: 10, HPScale: 0.1}

	tests := []struct {
		corruption float64
		want       int
	}{
		{0, 10},
		{5, 15},
		{-3, 10}, // never below base
	}
	for _, tt := range tests {
		if got := def.ScaledHP(tt.corruption); got != tt.want {
			t.Errorf("ScaledHP(%v) = %d, want %d", tt.corruption, got, tt.want)
		}
	}
}

func TestLoadItemRegistry(t *testing.T) {
	r := MustLoadItemRegistry()
	if r.Count() == 0 {
		t.Fatal("no items loaded")
	}
	if r.GetByID("almond_water") == nil {
		t.Error("almond_water missing")
	}
}

func TestLevelRegistryWraps(t *testing.T) {
	r := MustLoadLevelRegistry()
	n := r.Count()
	if n == 0 {
		t.Fatal("no levels loaded")
	}

	for _, lv := range []int{0, n, -1, 3 * n} {
		def := r.Get(lv)
		if def == nil {
			t.Fatalf("level %d has no definition", lv)
		}
		if def.CorruptionIncrement <= 0 {
			t.Errorf("level %d: corruption increment %v not positive", lv, def.CorruptionIncrement)
		}
	}
	if r.Get(0) != r.Get(n) {
		t.Error("level numbering did not wrap")
	}
}

func TestSpawnEntryWeight(t *testing.T) {
	tests := []struct {
		threatWeight float64
		want         float64
	}{
		{0, 1}, // omitted in JSON
		{-2, 1},
		{5, 5},
	}
	for _, tt := range tests {
		e := SpawnEntry{ThreatWeight: tt.threatWeight}
		if got := e.Weight(); got != tt.want {
			t.Errorf("Weight() with threatWeight %v = %v, want %v", tt.threatWeight, got, tt.want)
		}
	}

	// The shipped creature tables carry explicit weights.
	for i, lv := 0, MustLoadLevelRegistry(); i < lv.Count(); i++ {
		for _, e := range lv.Get(i).Creatures {
			if e.ThreatWeight <= 0 {
				t.Errorf("level %d creature %q has no threat weight", i, e.Type)
			}
		}
	}
}

func TestLevelSpawnTablesResolve(t *testing.T) {
	levels := MustLoadLevelRegistry()
	creatures := MustLoadCreatureRegistry()
	items := MustLoadItemRegistry()

	for i := 0; i < levels.Count(); i++ {
		def := levels.Get(i)
		for _, e := range def.Creatures {
			if creatures.GetByID(e.Type) == nil {
				t.Errorf("level %d spawns unknown creature %q", i, e.Type)
			}
		}
		for _, e := range def.Items {
			if items.GetByID(e.Type) == nil {
				t.Errorf("level %d places unknown item %q", i, e.Type)
			}
		}
	}
}

func TestParseHexColor(t *testing.T) {
	if _, err := ParseHexColor("#7CB342"); err != nil {
		t.Errorf("valid color rejected: %v", err)
	}
	if _, err := ParseHexColor("7CB342"); err != nil {
		t.Errorf("color without # rejected: %v", err)
	}
	for _, bad := range []string{"", "#FFF", "#GGGGGG"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) accepted", bad)
		}
	}
}
