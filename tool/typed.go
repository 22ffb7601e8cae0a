package tool

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/internal/util"
)

// Validator is implemented by request types that check their own invariants
// after decoding (ranges, mutually exclusive fields, non-empty strings).
type Validator interface {
	Validate() error
}

// TypedFunc is a tool implementation working on a decoded request struct.
type TypedFunc[Req, Resp any] func(toolCtx *core.ToolContext, req Req) (Resp, error)

// TypedTool exposes a TypedFunc as a Tool. Arguments are decoded into Req
// with mapstructure using the struct's json tags; JSON numbers decode into
// integer fields and absent optional fields keep their zero value.
type TypedTool[Req, Resp any] struct {
	name        string
	description string
	parameters  map[string]any
	fn          TypedFunc[Req, Resp]
}

// NewTypedTool creates a TypedTool whose schema is derived from Req.
//
//	type addReq struct {
//		A int `json:"a" description:"first operand"`
//		B int `json:"b" description:"second operand"`
//	}
//
//	add := NewTypedTool("add", "Add two integers",
//		func(_ *core.ToolContext, r addReq) (int, error) { return r.A + r.B, nil })
func NewTypedTool[Req, Resp any](name, description string, fn TypedFunc[Req, Resp]) *TypedTool[Req, Resp] {
	var zero Req
	return &TypedTool[Req, Resp]{
		name:        name,
		description: description,
		parameters:  util.CreateSchema(zero),
		fn:          fn,
	}
}

// WithParameters overrides the derived schema, e.g. to add defaults or
// loosen required fields.
func (t *TypedTool[Req, Resp]) WithParameters(schema map[string]any) *TypedTool[Req, Resp] {
	t.parameters = schema
	return t
}

func (t *TypedTool[Req, Resp]) Name() string               { return t.name }
func (t *TypedTool[Req, Resp]) Description() string        { return t.description }
func (t *TypedTool[Req, Resp]) Parameters() map[string]any { return t.parameters }

// Call decodes args into Req, runs Validate when implemented and invokes the
// wrapped function.
func (t *TypedTool[Req, Resp]) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	var req Req

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(args); err != nil {
		return nil, NewToolError(t.name, fmt.Sprintf("invalid arguments: %v", err), CodeValidation)
	}

	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, NewToolError(t.name, err.Error(), CodeValidation)
		}
	}

	return t.fn(toolCtx, req)
}
