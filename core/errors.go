package core

import "errors"

var (
	// ErrUnknownTool is returned when a tool name is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when tool arguments fail schema validation.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrToolExecution marks a failure raised by a tool handler. It is always
	// absorbed into an error-flagged ToolResult and never aborts a loop.
	ErrToolExecution = errors.New("tool execution failed")

	// ErrUnknownSubAgent is returned when delegating to an unregistered sub-agent.
	ErrUnknownSubAgent = errors.New("unknown sub-agent")

	// ErrWorkspaceNotFound is returned when reading an absent workspace file.
	ErrWorkspaceNotFound = errors.New("workspace file not found")

	// ErrStepBudgetExceeded signals that the run-wide step budget is spent.
	// It is a terminal but non-fatal outcome.
	ErrStepBudgetExceeded = errors.New("step budget exceeded")

	// ErrReasoningModel wraps any failure of the reasoning-model call. It is
	// the only error that aborts a run.
	ErrReasoningModel = errors.New("reasoning model failure")
)
