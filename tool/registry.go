package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/internal/util"
)

// Definition is the model-facing description of a registered tool.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Registry maps tool names to implementations and dispatches invocations.
//
// Invoke never lets a handler failure escape: errors returned by a tool and
// recovered panics become error-flagged results. Only structural problems
// (unknown name, invalid arguments) are reported as errors, and even then the
// returned ToolResult is populated so callers can append it to a history.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a registry pre-populated with tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Names must be non-empty and unique.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return errors.New("tool is nil")
	}

	name := t.Name()
	if name == "" {
		return errors.New("tool name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}

	r.tools[name] = t
	r.order = append(r.order, name)

	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tools)
}

// Definitions returns the model-facing definitions sorted by name so prompts
// are deterministic across runs.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs
}

// Subset returns a new registry holding only the named tools. Unknown names
// fail with core.ErrUnknownTool.
func (r *Registry) Subset(names ...string) (*Registry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub := &Registry{tools: make(map[string]Tool, len(names))}
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrUnknownTool, name)
		}
		if _, dup := sub.tools[name]; dup {
			continue
		}
		sub.tools[name] = t
		sub.order = append(sub.order, name)
	}

	return sub, nil
}

// Clone returns an independent registry with the same tools.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := &Registry{tools: make(map[string]Tool, len(r.tools)), order: append([]string(nil), r.order...)}
	for k, v := range r.tools {
		c.tools[k] = v
	}

	return c
}

// Invoke validates args against the tool schema and executes it.
//
// Returned errors wrap core.ErrUnknownTool or core.ErrInvalidArguments. A
// handler error or panic yields a nil error and a ToolResult with IsError set.
func (r *Registry) Invoke(toolCtx *core.ToolContext, name string, args map[string]any) (core.ToolResult, error) {
	if toolCtx == nil {
		toolCtx = core.NewToolContext(context.Background(), "", "", "", 0, nil)
	}

	res := core.ToolResult{CallID: toolCtx.CallID(), Name: name}

	impl, ok := r.Lookup(name)
	if !ok {
		err := fmt.Errorf("%w: %s", core.ErrUnknownTool, name)
		res.Content = NewToolError(name, fmt.Sprintf("tool %q not found", name), CodeNotFound).Error()
		res.IsError = true
		return res, err
	}

	if args == nil {
		args = map[string]any{}
	}

	if err := util.ValidateParameters(args, impl.Parameters()); err != nil {
		res.Content = NewToolError(name, err.Error(), CodeValidation).Error()
		res.IsError = true
		return res, fmt.Errorf("%w: %w", core.ErrInvalidArguments, err)
	}

	out, err := callSafely(toolCtx, impl, args)
	if err != nil {
		toolCtx.LogWarn("tool.call.error", "tool", name, "error", err.Error())
		res.Content = errorText(name, err)
		res.IsError = true
		return res, nil
	}

	text, err := renderResult(out)
	if err != nil {
		res.Content = NewToolError(name, err.Error(), CodeExecution).Error()
		res.IsError = true
		return res, nil
	}

	res.Content = text

	return res, nil
}

func callSafely(toolCtx *core.ToolContext, impl Tool, args map[string]any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			toolCtx.LogError("tool.call.panic", "tool", impl.Name(), "recover", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: panic: %v", core.ErrToolExecution, r)
		}
	}()

	return impl.Call(toolCtx, args)
}

// errorText formats a handler failure for the model. ToolErrors keep their
// code; anything else is reported as an execution error.
func errorText(name string, err error) string {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Error()
	}
	return NewToolError(name, err.Error(), CodeExecution).Error()
}

func renderResult(out any) (string, error) {
	switch v := out.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	return string(b), nil
}
