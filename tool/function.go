package tool

import (
	"fmt"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/internal/util"
)

// HandlerFunc is the signature of a tool body. args have already passed
// schema validation when the Registry calls it.
type HandlerFunc func(toolCtx *core.ToolContext, args map[string]any) (any, error)

// FunctionTool exposes a HandlerFunc under a name, description and argument
// schema. It holds no mutable state and is safe for concurrent use.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          HandlerFunc
}

// NewFunctionTool builds a tool from an explicit argument schema. A nil
// schema accepts an empty object.
//
// Example:
//
//	quote := NewFunctionTool(
//	  "stock_quote",
//	  "Return the latest price for a ticker symbol",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "ticker": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"ticker"},
//	  },
//	  func(tc *core.ToolContext, args map[string]any) (any, error) {
//	    return prices[args["ticker"].(string)], nil
//	  },
//	)
func NewFunctionTool(name, description string, parameters map[string]any, fn HandlerFunc) *FunctionTool {
	if parameters == nil {
		parameters = map[string]any{"type": "object", "properties": map[string]any{}}
	}

	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewFunctionToolFromStruct is NewFunctionTool with the schema reflected from
// the json and jsonschema tags of structType.
func NewFunctionToolFromStruct(name, description string, structType any, fn HandlerFunc) *FunctionTool {
	return NewFunctionTool(name, description, util.CreateSchema(structType), fn)
}

func (t *FunctionTool) Name() string               { return t.name }
func (t *FunctionTool) Description() string        { return t.description }
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call runs the handler. A tool built without a handler fails every call.
func (t *FunctionTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	if t.fn == nil {
		return nil, fmt.Errorf("tool %s has no handler", t.name)
	}

	return t.fn(toolCtx, args)
}
