package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deepagent/core"
)

func TestNewDirectory(t *testing.T) {
	tools := []string{"internet_search"}

	dir, err := NewDirectory(
		SubAgentSpec{Name: "research-agent", Tools: tools},
		SubAgentSpec{Name: "critique-agent"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, dir.Len())
	assert.Equal(t, []string{"research-agent", "critique-agent"}, dir.Names())

	tools[0] = "mutated"

	spec, err := dir.Lookup("research-agent")
	require.NoError(t, err)
	assert.Equal(t, []string{"internet_search"}, spec.Tools)

	_, err = dir.Lookup("finance-agent")
	assert.ErrorIs(t, err, core.ErrUnknownSubAgent)
}

func TestNewDirectory_Errors(t *testing.T) {
	_, err := NewDirectory(SubAgentSpec{Name: ""})
	assert.ErrorContains(t, err, "name is empty")

	_, err = NewDirectory(SubAgentSpec{Name: "a"}, SubAgentSpec{Name: "a"})
	assert.ErrorContains(t, err, "declared twice")
}

func TestDirectory_NilSafe(t *testing.T) {
	var dir *Directory

	assert.Equal(t, 0, dir.Len())
	assert.Nil(t, dir.Names())
	assert.Nil(t, dir.Specs())

	_, err := dir.Lookup("any")
	assert.ErrorIs(t, err, core.ErrUnknownSubAgent)
}

func TestLoadDirectory(t *testing.T) {
	input := `
- name: research-agent
  description: Used to research more in depth questions.
  instruction: You are a dedicated researcher.
  tools: [internet_search]
- name: general-purpose
  description: General-purpose agent.
  general_purpose: true
`

	dir, err := LoadDirectory(strings.NewReader(input))
	require.NoError(t, err)

	specs := dir.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, SubAgentSpec{
		Name:        "research-agent",
		Description: "Used to research more in depth questions.",
		Instruction: "You are a dedicated researcher.",
		Tools:       []string{"internet_search"},
	}, specs[0])
	assert.True(t, specs[1].GeneralPurpose)
	assert.Empty(t, specs[1].Tools)
}

func TestLoadDirectory_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown field", "- name: a\n  prompt: nope\n", "failed to decode"},
		{"not a list", "name: a\n", "failed to decode"},
		{"duplicate", "- name: a\n- name: a\n", "declared twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDirectory(strings.NewReader(tt.input))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadDirectory_Empty(t *testing.T) {
	dir, err := LoadDirectory(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, dir.Len())
}
