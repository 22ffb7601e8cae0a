package engine

import (
	"fmt"

	"github.com/hupe1980/deepagent/agent"
	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/planning"
)

// TerminationReason explains why a run stopped.
type TerminationReason string

const (
	// ReasonCompleted means the parent loop produced a final answer.
	ReasonCompleted TerminationReason = "completed"
	// ReasonStepLimit means the shared step budget was spent or the run was
	// cancelled.
	ReasonStepLimit TerminationReason = "step_limit_reached"
	// ReasonFatal means the reasoning model failed.
	ReasonFatal TerminationReason = "fatal_error"
)

func reasonFor(state agent.State) TerminationReason {
	switch state {
	case agent.StateDone:
		return ReasonCompleted
	case agent.StateStepLimit:
		return ReasonStepLimit
	default:
		return ReasonFatal
	}
}

// RunResult is the final artifact set of one run. It is returned for every
// termination reason; side effects made before a failure are kept.
type RunResult struct {
	RunID string
	// Workspace is a snapshot of all files at termination.
	Workspace map[string]string
	// Todos is the planning ledger at termination.
	Todos             []planning.TodoItem
	TerminationReason TerminationReason
	// LastAssistantText is the parent loop's most recent non-empty answer.
	LastAssistantText string
	// Steps is the number of model calls across the parent and all sub-agents.
	Steps int
	// Err is nil when the run completed.
	Err error
}

// Completed reports whether the run reached a final answer.
func (r RunResult) Completed() bool { return r.TerminationReason == ReasonCompleted }

// File returns a workspace file from the snapshot. A missing deliverable is a
// normal outcome reported as core.ErrWorkspaceNotFound.
func (r RunResult) File(name string) (string, error) {
	content, ok := r.Workspace[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrWorkspaceNotFound, name)
	}

	return content, nil
}
