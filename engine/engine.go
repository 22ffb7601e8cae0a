package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/deepagent/agent"
	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/logging"
	"github.com/hupe1980/deepagent/model"
	"github.com/hupe1980/deepagent/planning"
	"github.com/hupe1980/deepagent/tool"
	"github.com/hupe1980/deepagent/workspace"
)

// GeneralPurposeName is the name of the built-in general-purpose sub-agent.
const GeneralPurposeName = "general-purpose"

const generalPurposeDescription = "General-purpose agent for researching complex questions, searching for information and executing multi-step tasks. Use it to run an independent piece of work in an isolated context."

// ErrInvalidConfig is returned by New for unusable options.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config defines the operational limits of the Engine.
//
// Example:
//
//	cfg := Config{
//	    StepBudget:         200,
//	    MaxDelegationDepth: 2,
//	}
type Config struct {
	// StepBudget is the maximum number of model calls per run, shared by the
	// parent loop and every nested sub-agent loop.
	StepBudget int

	// MaxDelegationDepth limits sub-agent nesting. 0 means unlimited; the
	// step budget still guarantees termination.
	MaxDelegationDepth int

	// IncludeGeneralPurpose registers a built-in "general-purpose" sub-agent
	// with every registered tool and the workspace tools.
	IncludeGeneralPurpose bool

	// MaxConcurrentRuns limits how many runs may execute at the same time.
	// Set to 0 for unlimited.
	MaxConcurrentRuns int
}

// DefaultConfig provides the default limits.
//
// Configuration values:
//   - StepBudget: 1000
//   - MaxDelegationDepth: 0 (unlimited)
//   - IncludeGeneralPurpose: false
//   - MaxConcurrentRuns: 10
var DefaultConfig = Config{
	StepBudget:        agent.DefaultStepBudget,
	MaxConcurrentRuns: 10,
}

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Config contains operational limits. Defaults to DefaultConfig.
	Config Config

	// Instruction is the top-level system instruction of the parent loop.
	Instruction string

	// Tools are the caller-supplied capabilities. The workspace and planning
	// tools are added per run and must not be shadowed.
	Tools []tool.Tool

	// SubAgents are the named sub-agents available to the delegation tool.
	SubAgents []agent.SubAgentSpec

	// Logger provides structured logging. Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// Engine drives runs of the parent agent loop.
//
// An Engine is immutable after construction and safe for concurrent use.
// Every Run gets its own workspace, planning ledger, step counter and tool
// registry, so runs never observe each other.
type Engine struct {
	llm         model.Model
	config      Config
	instruction string
	tools       *tool.Registry
	directory   *agent.Directory
	shared      []string
	logger      logging.Logger

	sem *semaphore.Weighted
}

// New creates an Engine using llm as the reasoning model for the parent and
// all sub-agents.
//
// It fails when the step budget is not positive, when tool names collide or
// when a sub-agent names a tool that does not exist.
func New(llm model.Model, optFns ...func(o *Options)) (*Engine, error) {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if llm == nil {
		return nil, fmt.Errorf("%w: model is nil", ErrInvalidConfig)
	}
	if opts.Config.StepBudget <= 0 {
		return nil, fmt.Errorf("%w: step budget must be positive, got %d", ErrInvalidConfig, opts.Config.StepBudget)
	}
	if opts.Config.MaxDelegationDepth < 0 {
		return nil, fmt.Errorf("%w: max delegation depth must not be negative", ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	reg, err := tool.NewRegistry(opts.Tools...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	specs := append([]agent.SubAgentSpec(nil), opts.SubAgents...)
	if opts.Config.IncludeGeneralPurpose && !hasSubAgent(specs, GeneralPurposeName) {
		specs = append(specs, agent.SubAgentSpec{
			Name:           GeneralPurposeName,
			Description:    generalPurposeDescription,
			Instruction:    opts.Instruction,
			Tools:          reg.Names(),
			GeneralPurpose: true,
		})
	}

	dir, err := agent.NewDirectory(specs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e := &Engine{
		llm:         llm,
		config:      opts.Config,
		instruction: opts.Instruction,
		tools:       reg,
		directory:   dir,
		logger:      opts.Logger,
	}

	if opts.Config.MaxConcurrentRuns > 0 {
		e.sem = semaphore.NewWeighted(int64(opts.Config.MaxConcurrentRuns))
	}

	// Dry-run the per-run wiring so configuration errors surface here and not
	// in the middle of a run.
	probe, err := e.bind(workspace.New(), planning.NewLedger())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e.shared = workspaceToolNames()

	if _, err := e.delegator(probe, core.NewStepCounter(1), ""); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return e, nil
}

// Directory returns the sub-agent directory, including the built-in
// general-purpose sub-agent when enabled.
func (e *Engine) Directory() *agent.Directory { return e.directory }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Run executes task to a terminal state and returns the final artifact set.
//
// seed pre-populates the workspace and may be nil. Run never panics on tool
// failures and always returns a RunResult: a cancelled ctx ends the run with
// ReasonStepLimit, a reasoning-model failure with ReasonFatal.
func (e *Engine) Run(ctx context.Context, task string, seed map[string]string) RunResult {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.NewString()
	ws := workspace.NewFromSeed(seed)
	ledger := planning.NewLedger()
	counter := core.NewStepCounter(e.config.StepBudget)

	snapshot := func(reason TerminationReason, text string, err error) RunResult {
		return RunResult{
			RunID:             runID,
			Workspace:         ws.Snapshot(),
			Todos:             ledger.Items(),
			TerminationReason: reason,
			LastAssistantText: text,
			Steps:             min(counter.Count(), counter.Max()),
			Err:               err,
		}
	}

	release, err := e.acquire(ctx)
	if err != nil {
		e.logger.Warn("engine.run.rejected", "run_id", runID, "error", err.Error())
		return snapshot(ReasonStepLimit, "", err)
	}
	defer release()

	reg, err := e.bind(ws, ledger)
	if err != nil {
		return snapshot(ReasonFatal, "", err)
	}

	del, err := e.delegator(reg, counter, runID)
	if err != nil {
		return snapshot(ReasonFatal, "", err)
	}

	loop := agent.NewLoop(e.llm, func(o *agent.LoopOptions) {
		o.Name = "parent"
		o.Instruction = e.instruction
		o.Tools = reg
		o.Delegator = del
		o.Counter = counter
		o.RunID = runID
		o.Logger = e.logger
	})

	e.logger.Info("engine.run.start",
		"run_id", runID,
		"model", e.llm.Info().Name,
		"step_budget", e.config.StepBudget,
		"tools", reg.Len(),
		"sub_agents", e.directory.Len(),
	)

	out := loop.Run(ctx, task)
	result := snapshot(reasonFor(out.State), out.Text, out.Err)

	if result.Err != nil && result.TerminationReason == ReasonFatal {
		e.logger.Error("engine.run.failed", "run_id", runID, "steps", result.Steps, "error", result.Err.Error())
	} else {
		e.logger.Info("engine.run.complete",
			"run_id", runID,
			"reason", string(result.TerminationReason),
			"steps", result.Steps,
			"files", len(result.Workspace),
		)
	}

	return result
}

// bind builds the per-run registry: the caller's tools plus the workspace and
// planning tools operating on ws and ledger.
func (e *Engine) bind(ws *workspace.Workspace, ledger *planning.Ledger) (*tool.Registry, error) {
	reg := e.tools.Clone()

	for _, t := range append(workspace.Tools(ws), planning.Tools(ledger)...) {
		if err := reg.Register(t); err != nil {
			return nil, fmt.Errorf("built-in tool %q: %w", t.Name(), err)
		}
	}

	return reg, nil
}

func (e *Engine) delegator(reg *tool.Registry, counter *core.StepCounter, runID string) (*agent.Delegator, error) {
	if e.directory.Len() == 0 {
		return nil, nil
	}

	return agent.NewDelegator(e.llm, e.directory, func(o *agent.DelegatorOptions) {
		o.Tools = reg
		o.SharedTools = e.shared
		o.Counter = counter
		o.RunID = runID
		o.MaxDepth = e.config.MaxDelegationDepth
		o.Logger = e.logger
	})
}

func (e *Engine) acquire(ctx context.Context) (func(), error) {
	if e.sem == nil {
		return func() {}, nil
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	return func() { e.sem.Release(1) }, nil
}

func workspaceToolNames() []string {
	return []string{workspace.ToolList, workspace.ToolRead, workspace.ToolWrite, workspace.ToolEdit}
}

func hasSubAgent(specs []agent.SubAgentSpec, name string) bool {
	for _, s := range specs {
		if s.Name == name {
			return true
		}
	}
	return false
}
