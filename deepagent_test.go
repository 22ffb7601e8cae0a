package deepagent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/engine"
	"github.com/hupe1980/deepagent/model"
	"github.com/hupe1980/deepagent/tool"
	"github.com/hupe1980/deepagent/workspace"
)

func TestDeepAgent_RunWithFiles(t *testing.T) {
	llm := model.NewScriptedModel(
		model.Reply("", core.ToolCall{ID: "e1", Name: workspace.ToolEdit, Arguments: map[string]any{
			"file_path":  "draft.md",
			"old_string": "TBD",
			"new_string": "Hold",
		}}),
		model.Reply("Updated the draft."),
	)

	da, err := New(llm, func(o *Options) {
		o.Instruction = "Edit drafts."
	})
	require.NoError(t, err)

	res := da.RunWithFiles(context.Background(), "finalize the draft", map[string]string{"draft.md": "Rating: TBD"})

	require.Equal(t, engine.ReasonCompleted, res.TerminationReason)
	draft, err := res.File("draft.md")
	require.NoError(t, err)
	assert.Equal(t, "Rating: Hold", draft)
}

func TestDeepAgent_Run(t *testing.T) {
	da, err := New(model.NewScriptedModel(model.Reply("Hi.")))
	require.NoError(t, err)

	res := da.Run(context.Background(), "greet")
	assert.True(t, res.Completed())
	assert.Equal(t, "Hi.", res.LastAssistantText)
	assert.Empty(t, res.Workspace)
}

func TestNew_PropagatesEngineErrors(t *testing.T) {
	_, err := New(model.NewScriptedModel(), func(o *Options) {
		o.EngineConfig.StepBudget = 0
	})
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestLoadSubAgents(t *testing.T) {
	specs, err := LoadSubAgents(strings.NewReader(`
- name: research-agent
  description: Researches.
  tools: [lookup]
`))
	require.NoError(t, err)
	require.Len(t, specs, 1)

	lookup := tool.NewFunctionTool("lookup", "Look something up", nil,
		func(*core.ToolContext, map[string]any) (any, error) { return "found", nil })

	_, err = New(model.NewScriptedModel(), func(o *Options) {
		o.Tools = []Tool{lookup}
		o.SubAgents = specs
	})
	assert.NoError(t, err)
}
