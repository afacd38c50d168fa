package corruption

import (
	"math"
	"testing"
)

func TestIncreaseIsMonotonic(t *testing.T) {
	tr := NewTracker()

	prev := tr.Value(0)
	for i := 0; i < 100; i++ {
		got := tr.Increase(0, 0.05)
		if got < prev {
			t.Fatalf("corruption decreased: %f -> %f", prev, got)
		}
		prev = got
	}

	// Negative increments must not decrease the value.
	before := tr.Value(0)
	tr.Increase(0, -10)
	if tr.Value(0) != before {
		t.Errorf("negative increment changed value: %f -> %f", before, tr.Value(0))
	}

	// Levels are independent.
	if tr.Value(3) != 0 {
		t.Errorf("untouched level has corruption %f", tr.Value(3))
	}

	tr.Reset()
	if tr.Value(0) != 0 {
		t.Errorf("Reset left corruption at %f", tr.Value(0))
	}
}

func TestSpawnProbabilityClamped(t *testing.T) {
	tr := NewTracker()
	tr.Increase(0, 50) // extreme corruption

	tests := []struct {
		name       string
		base, mult float64
	}{
		{"hazard extreme", 0.5, 100},
		{"scarce extreme", 0.5, -100},
		{"zero base", 0, 5},
		{"huge base", 2, 1},
		{"tiny", 1e-9, 1e-9},
	}

	for _, tt := range tests {
		p := tr.SpawnProbability(0, tt.base, tt.mult)
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Errorf("%s: probability %f outside [0,1]", tt.name, p)
		}
	}

	// Positive multiplier raises, negative lowers, relative to no corruption.
	base := tr.SpawnProbability(9, 0.1, 2) // level 9 untouched
	if up := tr.SpawnProbability(0, 0.1, 2); up <= base {
		t.Errorf("hazard probability %f should exceed base %f", up, base)
	}
	if down := tr.SpawnProbability(0, 0.1, -0.01); down >= base {
		t.Errorf("scarce probability %f should be below base %f", down, base)
	}
}
