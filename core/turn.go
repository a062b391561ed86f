package core

// TurnState is the lifecycle state of one question/response cycle.
type TurnState int

const (
	// TurnIdle is the state before any event was applied.
	TurnIdle TurnState = iota
	// TurnThinking means thinking progress is being displayed.
	TurnThinking
	// TurnAnswering means the answer placeholder is open.
	TurnAnswering
	// TurnComplete means the unified answer was assembled; terminal.
	TurnComplete
	// TurnError means the turn failed; terminal.
	TurnError
)

// String returns the string representation of the state.
func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "IDLE"
	case TurnThinking:
		return "THINKING"
	case TurnAnswering:
		return "ANSWERING"
	case TurnComplete:
		return "COMPLETE"
	case TurnError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further events may change the turn.
func (s TurnState) Terminal() bool { return s == TurnComplete || s == TurnError }
