package agent

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/logging"
	"github.com/hupe1980/deepagent/model"
	"github.com/hupe1980/deepagent/tool"
)

// LoopOptions configures a Loop.
type LoopOptions struct {
	// Name identifies the loop in logs and tool contexts ("parent" or the
	// sub-agent name).
	Name string
	// Instruction is sent as the model's system instruction on every step.
	Instruction string
	// Tools are the capabilities the model may call.
	Tools *tool.Registry
	// Delegator handles calls to the delegation tool. Nil disables delegation.
	Delegator *Delegator
	// Counter is the run-wide step counter. Nil creates a private counter
	// with DefaultStepBudget.
	Counter *core.StepCounter
	// RunID correlates logs and tool contexts of one run.
	RunID string
	// Depth is 0 for the parent loop and grows by one per delegation level.
	Depth int
	// Logger receives step, model and tool events.
	Logger logging.Logger
}

// DefaultStepBudget is used by loops created without a shared counter.
const DefaultStepBudget = 1000

// Outcome is the result of running a Loop to a terminal state.
type Outcome struct {
	State State
	// Text is the most recent non-empty assistant text.
	Text string
	// History is the loop's full message history, owned by the caller.
	History []core.Message
	// Steps is the number of model invocations made by this loop alone.
	Steps int
	// Err is nil for StateDone, wraps core.ErrStepBudgetExceeded or a
	// context error for StateStepLimit and core.ErrReasoningModel for
	// StateFatal.
	Err error
}

// Loop drives one instruction to a final answer by alternating model steps
// and sequential tool execution.
//
// A Loop is single-use: its history is scoped to one Run and never shared
// with other loops. Nested loops started through the Delegator share only the
// step counter and whatever state the tools close over (the workspace).
type Loop struct {
	name        string
	instruction string
	llm         model.Model
	tools       *tool.Registry
	delegator   *Delegator
	counter     *core.StepCounter
	runID       string
	depth       int
	logger      logging.Logger

	state   State
	history []core.Message
}

// NewLoop creates a Loop using llm as the reasoning model.
func NewLoop(llm model.Model, optFns ...func(o *LoopOptions)) *Loop {
	opts := LoopOptions{Name: "agent"}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tools == nil {
		opts.Tools, _ = tool.NewRegistry()
	}
	if opts.Counter == nil {
		opts.Counter = core.NewStepCounter(DefaultStepBudget)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.RunID == "" {
		opts.RunID = core.NewID()
	}

	return &Loop{
		name:        opts.Name,
		instruction: opts.Instruction,
		llm:         llm,
		tools:       opts.Tools,
		delegator:   opts.Delegator,
		counter:     opts.Counter,
		runID:       opts.RunID,
		depth:       opts.Depth,
		logger:      opts.Logger,
		state:       StateRunning,
	}
}

// Name returns the loop name.
func (l *Loop) Name() string { return l.name }

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Run executes the loop for task until it reaches a terminal state. It never
// panics on tool failures and always returns an Outcome.
func (l *Loop) Run(ctx context.Context, task string) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	l.state = StateRunning
	l.history = []core.Message{core.NewUserMessage(task)}

	defs := l.definitions()

	var (
		steps    int
		lastText string
	)

	finish := func(state State, err error) Outcome {
		l.state = state
		l.logger.Info("agent.loop.finished",
			"agent", l.name,
			"run_id", l.runID,
			"depth", l.depth,
			"state", state.String(),
			"steps", steps,
		)
		return Outcome{State: state, Text: lastText, History: l.history, Steps: steps, Err: err}
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(StateStepLimit, err)
		}

		step, err := l.counter.Increment()
		if err != nil {
			l.logger.Warn("agent.step.limit", "agent", l.name, "run_id", l.runID, "step", step, "budget", l.counter.Max())
			return finish(StateStepLimit, err)
		}

		steps++
		l.logger.Debug("agent.step.start", "agent", l.name, "run_id", l.runID, "step", step, "depth", l.depth)

		start := time.Now()
		msg, err := l.llm.Generate(ctx, model.Request{
			Instructions: l.instruction,
			Messages:     l.history,
			Tools:        defs,
		})
		logging.LogModelCall(l.logger, l.name, l.llm.Info().Name, step, time.Since(start), err)

		if err != nil {
			// A call aborted by the run's own cancellation is not a model failure.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return finish(StateStepLimit, ctxErr)
			}
			return finish(StateFatal, fmt.Errorf("%w: %w", core.ErrReasoningModel, err))
		}

		msg = normalizeAssistant(msg)
		l.history = append(l.history, msg)

		if text := msg.Text(); text != "" {
			lastText = text
		}

		if !msg.HasToolCalls() {
			return finish(StateDone, nil)
		}

		l.state = StateAwaitingTools

		for _, call := range msg.ToolCalls {
			res, fatal := l.execute(ctx, call)
			l.history = append(l.history, core.NewToolResultMessage(res))
			if fatal != nil {
				return finish(StateFatal, fatal)
			}
		}

		l.state = StateRunning
	}
}

// execute runs one tool call. The returned error is non-nil only when the
// run must abort (a reasoning-model failure inside a delegated loop).
func (l *Loop) execute(ctx context.Context, call core.ToolCall) (core.ToolResult, error) {
	toolCtx := core.NewToolContext(ctx, l.runID, call.ID, l.name, l.depth, l.logger)
	start := time.Now()

	if l.delegator != nil && call.Name == DelegateToolName {
		res, fatal := l.delegator.invoke(toolCtx, call)
		logging.LogToolCall(l.logger, l.name, call.Name, call.ID, time.Since(start), res.IsError)
		return res, fatal
	}

	res, err := l.tools.Invoke(toolCtx, call.Name, maps.Clone(call.Arguments))
	if err != nil {
		l.logger.Warn("agent.tool.rejected", "agent", l.name, "tool", call.Name, "call_id", call.ID, "error", err.Error())
	}

	logging.LogToolCall(l.logger, l.name, call.Name, call.ID, time.Since(start), res.IsError)

	return res, nil
}

// definitions returns the tool definitions sent to the model, sorted by name.
func (l *Loop) definitions() []model.ToolDefinition {
	regDefs := l.tools.Definitions()

	defs := make([]model.ToolDefinition, 0, len(regDefs)+1)
	for _, d := range regDefs {
		defs = append(defs, model.ToolDefinition{Name: d.Name, Description: d.Description, Parameters: d.Parameters})
	}

	if l.delegator != nil {
		defs = append(defs, l.delegator.Definition())
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs
}

// normalizeAssistant forces the assistant role and fills missing call IDs so
// every result can be correlated.
func normalizeAssistant(msg core.Message) core.Message {
	msg.Role = core.RoleAssistant
	msg.ToolResult = nil

	for i := range msg.ToolCalls {
		if msg.ToolCalls[i].ID == "" {
			msg.ToolCalls[i].ID = core.NewID()
		}
		if msg.ToolCalls[i].Arguments == nil {
			msg.ToolCalls[i].Arguments = map[string]any{}
		}
	}

	return msg
}

// IsStepLimit reports whether err ended a loop at the step limit.
func IsStepLimit(err error) bool {
	return errors.Is(err, core.ErrStepBudgetExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
