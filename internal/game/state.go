// Package game ties dungeon generation, the difficulty model and room-entry
// reconciliation into a playable session, plus the terminal loop that drives it.
package game

// State represents the current session state.
type State int

const (
	// StateExploring is the default state while the boss room still holds hostiles.
	StateExploring State = iota
	// StateVictory is reached once every hostile of the boss room is dead.
	StateVictory
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExploring:
		return "exploring"
	case StateVictory:
		return "victory"
	default:
		return "unknown"
	}
}
