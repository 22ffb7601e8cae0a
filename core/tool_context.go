package core

import (
	"context"

	"github.com/hupe1980/deepagent/logging"
)

// ToolContext is what a tool handler sees of the running loop: the context
// for cancellation, the correlation identifiers of the call and a logger that
// tags records with run_id, call_id and agent.
type ToolContext struct {
	ctx    context.Context
	runID  string
	callID string
	agent  string
	depth  int

	logger logging.Logger
	*scopedLogger
}

// NewToolContext constructs a tool context for one ToolCall executed by the
// named agent. depth is 0 for the parent loop and grows by one per delegation.
func NewToolContext(ctx context.Context, runID, callID, agent string, depth int, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &ToolContext{
		ctx:          ctx,
		runID:        runID,
		callID:       callID,
		agent:        agent,
		depth:        depth,
		logger:       logger,
		scopedLogger: newScopedLogger(logger, "run_id", runID, "call_id", callID, "agent", agent),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runID }

// CallID returns the ToolCall ID associated with the tool invocation.
func (tc *ToolContext) CallID() string { return tc.callID }

// AgentName returns the name of the loop executing the tool.
func (tc *ToolContext) AgentName() string { return tc.agent }

// Depth returns the delegation depth of the executing loop.
func (tc *ToolContext) Depth() int { return tc.depth }

// Logger returns the unscoped logger of the executing loop.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
