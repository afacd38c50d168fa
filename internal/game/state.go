// Package game provides the main game loop and turn sequencing.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the normal mode: the player acts, the world settles,
	// creatures act.
	StateExplore State = iota
	// StateDead ends input handling except for quitting.
	StateDead
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}
