package agent

// State is the position of a Loop in its state machine.
//
//	RUNNING --(no tool calls)--> DONE
//	RUNNING --(tool calls)--> AWAITING_TOOLS --> RUNNING
//	RUNNING --(budget spent / cancelled)--> STEP_LIMIT
//	RUNNING --(model failure)--> FATAL
type State int

const (
	StateRunning State = iota
	StateAwaitingTools
	StateDone
	StateStepLimit
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "RUNNING"
	case StateAwaitingTools:
		return "AWAITING_TOOLS"
	case StateDone:
		return "DONE"
	case StateStepLimit:
		return "STEP_LIMIT"
	case StateFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateStepLimit || s == StateFatal
}
