package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/deepagent/core"
)

// Turn configures one model turn in a scripted sequence.
type Turn struct {
	Message core.Message
	Err     error
}

// Reply is shorthand for a turn answering with text and optional tool calls.
func Reply(text string, calls ...core.ToolCall) Turn {
	return Turn{Message: core.NewAssistantMessage(text, calls...)}
}

// Fail is shorthand for a failing turn.
func Fail(err error) Turn { return Turn{Err: err} }

// ScriptedModel is a deterministic Model replaying a fixed sequence of turns.
// It records every request so tests can inspect what the model observed.
type ScriptedModel struct {
	mu       sync.Mutex
	index    int
	turns    []Turn
	requests []Request
}

// NewScriptedModel creates a ScriptedModel playing turns in order.
func NewScriptedModel(turns ...Turn) *ScriptedModel {
	cloned := make([]Turn, len(turns))
	copy(cloned, turns)

	return &ScriptedModel{turns: cloned}
}

var _ Model = (*ScriptedModel)(nil)

// Generate returns the next scripted turn. Running past the end of the script
// is an error.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (core.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, cloneRequest(req))

	if err := ctx.Err(); err != nil {
		return core.Message{}, err
	}

	if m.index >= len(m.turns) {
		return core.Message{}, fmt.Errorf("script exhausted at step %d", m.index+1)
	}

	current := m.turns[m.index]
	m.index++

	if current.Err != nil {
		return core.Message{}, current.Err
	}

	msg := current.Message.Clone()
	if msg.Role == "" {
		msg.Role = core.RoleAssistant
	}

	return msg, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "local", SupportsTools: true}
}

// Calls returns the number of Generate invocations so far.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.requests)
}

// Requests returns copies of all received requests.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.requests))
	copy(out, m.requests)

	return out
}

// LastRequest returns the most recent request, if any.
func (m *ScriptedModel) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.requests) == 0 {
		return Request{}, false
	}

	return m.requests[len(m.requests)-1], true
}

func cloneRequest(req Request) Request {
	out := Request{Instructions: req.Instructions, Tools: append([]ToolDefinition(nil), req.Tools...)}
	out.Messages = make([]core.Message, len(req.Messages))
	for i, msg := range req.Messages {
		out.Messages[i] = msg.Clone()
	}
	return out
}
