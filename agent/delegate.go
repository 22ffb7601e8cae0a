package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/internal/util"
	"github.com/hupe1980/deepagent/logging"
	"github.com/hupe1980/deepagent/model"
	"github.com/hupe1980/deepagent/tool"
)

// DelegateToolName is the name of the delegation meta-tool.
const DelegateToolName = "task"

// ErrMaxDelegationDepth is returned when a delegation would exceed the
// configured nesting limit.
var ErrMaxDelegationDepth = errors.New("max delegation depth exceeded")

const delegateDescriptionTemplate = `Launch a sub-agent to handle a complex, multi-step task in its own isolated context. The sub-agent works independently and only its final answer is returned to you, so give it a complete, self-contained task description.

Available sub-agents:
{{range .SubAgents}}- {{.Name}}: {{.Description}}
{{end}}`

type delegateArgs struct {
	SubAgentType string `json:"subagent_type" description:"Name of the sub-agent to delegate to"`
	Description  string `json:"description" description:"Detailed, self-contained task for the sub-agent"`
}

// DelegatorOptions configures a Delegator.
type DelegatorOptions struct {
	// Tools holds every tool a sub-agent may name in its spec.
	Tools *tool.Registry
	// SharedTools are tool names added to general-purpose sub-agents on top
	// of their declared subset (typically the workspace tools).
	SharedTools []string
	// Counter is the run-wide step counter shared with every nested loop.
	Counter *core.StepCounter
	// RunID correlates the nested loops with their parent.
	RunID string
	// MaxDepth limits delegation nesting; 0 means unlimited.
	MaxDepth int
	// Logger receives delegation events.
	Logger logging.Logger
}

// Delegator spawns isolated sub-agent loops on behalf of the delegation tool.
//
// Each delegation builds a fresh Loop with its own empty history. The nested
// loop shares only the step counter and the tools' underlying state with the
// caller, and only its final assistant text travels back.
type Delegator struct {
	llm         model.Model
	directory   *Directory
	tools       *tool.Registry
	shared      []string
	counter     *core.StepCounter
	runID       string
	maxDepth    int
	logger      logging.Logger
	description string
	parameters  map[string]any
}

// NewDelegator creates a Delegator for the sub-agents in dir. Every tool named
// by a spec (and every shared tool) must be present in Options.Tools.
func NewDelegator(llm model.Model, dir *Directory, optFns ...func(o *DelegatorOptions)) (*Delegator, error) {
	opts := DelegatorOptions{}
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
	if dir == nil {
		dir, _ = NewDirectory()
	}

	if _, err := opts.Tools.Subset(opts.SharedTools...); err != nil {
		return nil, fmt.Errorf("shared tools: %w", err)
	}

	for _, spec := range dir.Specs() {
		if _, err := opts.Tools.Subset(spec.Tools...); err != nil {
			return nil, fmt.Errorf("sub-agent %q: %w", spec.Name, err)
		}
	}

	description, err := util.RenderTemplate(delegateDescriptionTemplate, map[string]any{
		"SubAgents": dir.Specs(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render delegation tool description: %w", err)
	}

	return &Delegator{
		llm:         llm,
		directory:   dir,
		tools:       opts.Tools,
		shared:      append([]string(nil), opts.SharedTools...),
		counter:     opts.Counter,
		runID:       opts.RunID,
		maxDepth:    opts.MaxDepth,
		logger:      opts.Logger,
		description: description,
		parameters:  util.CreateSchema(delegateArgs{}),
	}, nil
}

// Definition returns the model-facing definition of the delegation tool.
func (d *Delegator) Definition() model.ToolDefinition {
	return model.ToolDefinition{
		Name:        DelegateToolName,
		Description: d.description,
		Parameters:  d.parameters,
	}
}

// Directory returns the sub-agent directory.
func (d *Delegator) Directory() *Directory { return d.directory }

// Delegate runs the named sub-agent on task from a caller at depth and
// returns its final assistant text.
//
// Errors wrap core.ErrUnknownSubAgent, ErrMaxDelegationDepth,
// core.ErrStepBudgetExceeded (or a context error) when the nested loop hit
// the step limit, and core.ErrReasoningModel when the nested model failed.
func (d *Delegator) Delegate(ctx context.Context, depth int, name, task string) (string, error) {
	spec, err := d.directory.Lookup(name)
	if err != nil {
		return "", err
	}

	childDepth := depth + 1
	if d.maxDepth > 0 && childDepth > d.maxDepth {
		return "", fmt.Errorf("%w: %d", ErrMaxDelegationDepth, d.maxDepth)
	}

	names := append([]string(nil), spec.Tools...)
	if spec.GeneralPurpose {
		names = append(names, d.shared...)
	}

	reg, err := d.tools.Subset(names...)
	if err != nil {
		return "", err
	}

	var nested *Delegator
	if spec.GeneralPurpose {
		nested = d
	}

	loop := NewLoop(d.llm, func(o *LoopOptions) {
		o.Name = spec.Name
		o.Instruction = spec.Instruction
		o.Tools = reg
		o.Delegator = nested
		o.Counter = d.counter
		o.RunID = d.runID
		o.Depth = childDepth
		o.Logger = d.logger
	})

	out := loop.Run(ctx, task)

	switch out.State {
	case StateDone:
		return out.Text, nil
	case StateStepLimit:
		return out.Text, fmt.Errorf("sub-agent %s stopped: %w", spec.Name, out.Err)
	default:
		return "", fmt.Errorf("sub-agent %s failed: %w", spec.Name, out.Err)
	}
}

// invoke executes a delegation tool call. Only a reasoning-model failure in
// the nested loop is returned as error; everything else becomes an
// error-flagged result for the caller's history.
func (d *Delegator) invoke(toolCtx *core.ToolContext, call core.ToolCall) (core.ToolResult, error) {
	res := core.ToolResult{CallID: call.ID, Name: DelegateToolName}

	if err := util.ValidateParameters(call.Arguments, d.parameters); err != nil {
		res.Content = tool.NewToolError(DelegateToolName, err.Error(), tool.CodeValidation).Error()
		res.IsError = true
		return res, nil
	}

	name, _ := call.Arguments["subagent_type"].(string)
	task, _ := call.Arguments["description"].(string)

	start := time.Now()
	text, err := d.Delegate(toolCtx.Context(), toolCtx.Depth(), name, task)
	logging.LogDelegation(d.logger, toolCtx.AgentName(), name, toolCtx.Depth()+1, time.Since(start), err)

	if err == nil {
		res.Content = text
		return res, nil
	}

	code := tool.CodeExecution
	if errors.Is(err, core.ErrUnknownSubAgent) {
		code = tool.CodeNotFound
	}

	res.Content = tool.NewToolError(DelegateToolName, err.Error(), code).Error()
	res.IsError = true

	if errors.Is(err, core.ErrReasoningModel) {
		return res, err
	}

	return res, nil
}
