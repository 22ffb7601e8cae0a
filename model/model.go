package model

import (
	"context"

	"github.com/hupe1980/deepagent/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by an agent loop.
type Request struct {
	Instructions string           `json:"instructions"` // System instruction for the model
	Messages     []core.Message   `json:"messages"`     // Full ordered history of the loop
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "gemini", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the reasoning-model boundary: given the full history it returns
// exactly one assistant message, which may request tool calls.
//
// Failures should be returned as *Error when the implementation can tell
// transient failures (rate limits, overloaded backends) from fatal ones. The
// agent loop treats every failure as fatal; retries belong to the host (see
// package retry).
type Model interface {
	Generate(ctx context.Context, req Request) (core.Message, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Func adapts a plain function to the Model interface.
type Func func(ctx context.Context, req Request) (core.Message, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, req Request) (core.Message, error) { return f(ctx, req) }

// Info implements Model.
func (f Func) Info() Info { return Info{Name: "func", Provider: "local", SupportsTools: true} }
