package pipeline

// State is a pipeline stage. A run only ever moves forward through the
// stages; Failed is terminal and reachable from any stage.
type State int

const (
	StateIdle State = iota
	StateExtracting
	StateTransforming
	StateValidating
	StateReporting
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateExtracting:   "extracting",
	StateTransforming: "transforming",
	StateValidating:   "validating",
	StateReporting:    "reporting",
	StateDone:         "done",
	StateFailed:       "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// canAdvance reports whether moving from s to next is a legal transition.
func (s State) canAdvance(next State) bool {
	if s.Terminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	return next == s+1
}
