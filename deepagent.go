// Package deepagent provides a high-level façade over the engine, agent and
// tool packages for building deep research agents. Most applications interact
// with this package by:
//  1. Creating a DeepAgent via New() with a reasoning model, an instruction,
//     tools and optional sub-agents
//  2. Calling Run (or RunWithFiles) with a task
//  3. Reading deliverables from the returned RunResult's workspace
//
// The façade delegates orchestration to engine.Engine. Every run gets a fresh
// virtual workspace, a planning ledger and a step budget shared with all
// sub-agents.
package deepagent

import (
	"context"
	"io"

	"github.com/hupe1980/deepagent/agent"
	"github.com/hupe1980/deepagent/engine"
	"github.com/hupe1980/deepagent/logging"
	"github.com/hupe1980/deepagent/model"
	"github.com/hupe1980/deepagent/tool"
)

type (
	// RunResult is the final artifact set of one run.
	RunResult = engine.RunResult
	// SubAgent declares a named sub-agent.
	SubAgent = agent.SubAgentSpec
	// Tool is a capability callable by the reasoning model.
	Tool = tool.Tool
)

// Options configures the DeepAgent instance.
type Options struct {
	// Engine configuration (step budget, delegation depth, concurrency)
	EngineConfig engine.Config

	// Instruction is the top-level system instruction.
	Instruction string

	// Tools available to the parent agent and selectable by sub-agents.
	Tools []Tool

	// SubAgents reachable through the "task" delegation tool.
	SubAgents []SubAgent

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// DeepAgent is the high-level façade aggregating the underlying engine.
type DeepAgent struct {
	engine *engine.Engine
}

// New creates a DeepAgent. Any unset option keeps the engine default.
func New(llm model.Model, optFns ...func(o *Options)) (*DeepAgent, error) {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e, err := engine.New(llm, func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Instruction = opts.Instruction
		o.Tools = opts.Tools
		o.SubAgents = opts.SubAgents
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &DeepAgent{engine: e}, nil
}

// Run executes task with an empty workspace.
func (d *DeepAgent) Run(ctx context.Context, task string) RunResult {
	return d.engine.Run(ctx, task, nil)
}

// RunWithFiles executes task with a workspace pre-populated from files.
func (d *DeepAgent) RunWithFiles(ctx context.Context, task string, files map[string]string) RunResult {
	return d.engine.Run(ctx, task, files)
}

// Engine exposes the underlying engine.
func (d *DeepAgent) Engine() *engine.Engine { return d.engine }

// LoadSubAgents reads sub-agent declarations from YAML.
func LoadSubAgents(r io.Reader) ([]SubAgent, error) {
	dir, err := agent.LoadDirectory(r)
	if err != nil {
		return nil, err
	}

	return dir.Specs(), nil
}
