package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deepagent/core"
)

func TestScriptedModel_PlaysTurnsInOrder(t *testing.T) {
	boom := errors.New("boom")
	m := NewScriptedModel(
		Reply("", core.ToolCall{ID: "c1", Name: "ls"}),
		Fail(boom),
		Turn{Message: core.Message{Content: "no role"}},
	)

	msg, err := m.Generate(context.Background(), Request{Messages: []core.Message{core.NewUserMessage("hi")}})
	require.NoError(t, err)
	assert.Equal(t, core.RoleAssistant, msg.Role)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "c1", msg.ToolCalls[0].ID)

	_, err = m.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)

	msg, err = m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, core.RoleAssistant, msg.Role)
	assert.Equal(t, "no role", msg.Text())

	_, err = m.Generate(context.Background(), Request{})
	assert.ErrorContains(t, err, "script exhausted at step 4")

	assert.Equal(t, 4, m.Calls())
	first := m.Requests()[0]
	assert.Equal(t, "hi", first.Messages[0].Content)
}

func TestScriptedModel_RecordsIndependentCopies(t *testing.T) {
	m := NewScriptedModel(Reply("done"))
	history := []core.Message{core.NewAssistantMessage("", core.ToolCall{ID: "x", Name: "t", Arguments: map[string]any{"k": "v"}})}

	_, err := m.Generate(context.Background(), Request{Messages: history})
	require.NoError(t, err)

	history[0].ToolCalls[0].Arguments["k"] = "changed"

	last, ok := m.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "v", last.Messages[0].ToolCalls[0].Arguments["k"])
}

func TestScriptedModel_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScriptedModel(Reply("x")).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFunc(t *testing.T) {
	f := Func(func(_ context.Context, req Request) (core.Message, error) {
		return core.NewAssistantMessage(req.Instructions), nil
	})

	msg, err := f.Generate(context.Background(), Request{Instructions: "echo"})
	require.NoError(t, err)
	assert.Equal(t, "echo", msg.Content)
	assert.Equal(t, "local", f.Info().Provider)
}

func TestError_Classification(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusRequestTimeout, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewError("openai", tt.status, errors.New("x")))
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}

	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(context.Canceled))

	e := &Error{Provider: "gemini", Transient: true, Err: errors.New("overloaded")}
	assert.Equal(t, "gemini api error (transient): overloaded", e.Error())
	assert.Contains(t, NewError("anthropic", 400, errors.New("bad")).Error(), "status 400")
}
