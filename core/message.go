package core

import (
	"maps"
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a Message.
type Role string

const (
	// RoleUser marks the task (or follow-up input) given to a loop.
	RoleUser Role = "user"
	// RoleAssistant marks a reasoning-model turn.
	RoleAssistant Role = "assistant"
	// RoleTool marks the outcome of exactly one ToolCall.
	RoleTool Role = "tool"
)

// ToolCall is a request, produced by the reasoning model, to invoke a named
// capability with structured arguments.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolResult is the outcome of executing a ToolCall. CallID always matches the
// originating ToolCall.ID.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Message is one entry of a loop history. After it is appended it must be
// treated as immutable.
//
// Assistant messages may carry ToolCalls; tool messages carry exactly one
// ToolResult. Content holds plain text for user and assistant messages and
// mirrors ToolResult.Content for tool messages.
type Message struct {
	Role       Role        `json:"role"`
	Content    string      `json:"content,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates an assistant message with optional tool calls.
func NewAssistantMessage(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// NewToolResultMessage wraps a ToolResult as a tool-role message.
func NewToolResultMessage(res ToolResult) Message {
	r := res
	return Message{Role: RoleTool, Content: res.Content, ToolResult: &r}
}

// HasToolCalls reports whether the message requests any tool execution.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// Text returns the trimmed textual content of the message.
func (m Message) Text() string { return strings.TrimSpace(m.Content) }

// Clone returns a deep copy so callers can hand messages across boundaries
// without sharing argument maps.
func (m Message) Clone() Message {
	out := Message{Role: m.Role, Content: m.Content}
	if len(m.ToolCalls) > 0 {
		out.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, c := range m.ToolCalls {
			out.ToolCalls[i] = ToolCall{ID: c.ID, Name: c.Name, Arguments: maps.Clone(c.Arguments)}
		}
	}
	if m.ToolResult != nil {
		r := *m.ToolResult
		out.ToolResult = &r
	}
	return out
}

// NewID generates a new unique identifier for runs and tool calls.
func NewID() string { return uuid.NewString() }
