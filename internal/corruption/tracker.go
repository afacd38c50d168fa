// Package corruption tracks the per-level difficulty scalar that escalates
// as the world is explored, and derives spawn probabilities from it.
package corruption

// Tracker holds one unbounded non-negative corruption value per level id.
// Values are created at first reference, only ever increased by Increase,
// and cleared by Reset on a new run.
type Tracker struct {
	levels map[int]float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{levels: make(map[int]float64)}
}

// Value returns the corruption value for a level, 0 if never touched.
func (t *Tracker) Value(level int) float64 {
	return t.levels[level]
}

// Increase raises a level's corruption by the given increment. Negative
// increments are ignored so the value stays monotonic between resets.
func (t *Tracker) Increase(level int, increment float64) float64 {
	if increment > 0 {
		t.levels[level] += increment
	}
	return t.levels[level]
}

// Reset clears all levels back to zero.
func (t *Tracker) Reset() {
	t.levels = make(map[int]float64)
}

// SpawnProbability scales a base probability by the level's corruption:
//
//	clamp(base * (1 + corruption*multiplier), 0, 1)
//
// A positive multiplier makes the feature more common as corruption rises
// (hazards); a negative one makes it rarer (scarce resources).
func (t *Tracker) SpawnProbability(level int, base, multiplier float64) float64 {
	p := base * (1 + t.levels[level]*multiplier)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
