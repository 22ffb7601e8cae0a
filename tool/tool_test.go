package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deepagent/core"
)

func testToolContext() *core.ToolContext {
	return core.NewToolContext(context.Background(), "run-1", "call-1", "parent", 0, nil)
}

func sumTool() *FunctionTool {
	return NewFunctionTool(
		"calculate_sum",
		"Calculate the sum of two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
}

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Metadata(t *testing.T) {
	ft := sumTool()

	assert.Equal(t, "calculate_sum", ft.Name())
	assert.Equal(t, "Calculate the sum of two numbers", ft.Description())
	assert.Equal(t, "object", ft.Parameters()["type"])

	empty := NewFunctionTool("noop", "", nil, func(*core.ToolContext, map[string]any) (any, error) { return nil, nil })
	assert.NotNil(t, empty.Parameters()["properties"])
}

func TestFunctionToolFromStruct(t *testing.T) {
	type echoArgs struct {
		Text string `json:"text" description:"text to echo"`
	}

	ft := NewFunctionToolFromStruct("echo", "Echo text", echoArgs{}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["text"], nil
	})

	assert.Equal(t, []string{"text"}, ft.Parameters()["required"])
}

// -------------------- Registry Tests --------------------

func TestRegistry_RegisterRejectsDuplicatesAndEmptyNames(t *testing.T) {
	r, err := NewRegistry(sumTool())
	require.NoError(t, err)

	err = r.Register(sumTool())
	assert.ErrorContains(t, err, "already registered")

	err = r.Register(NewFunctionTool("", "", nil, nil))
	assert.ErrorContains(t, err, "empty")

	assert.Error(t, r.Register(nil))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_InvokeSuccess(t *testing.T) {
	r, err := NewRegistry(sumTool())
	require.NoError(t, err)

	res, err := r.Invoke(testToolContext(), "calculate_sum", map[string]any{"a": 1.5, "b": 2.0})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "3.5", res.Content)
	assert.Equal(t, "call-1", res.CallID)
	assert.Equal(t, "calculate_sum", res.Name)
}

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	res, err := r.Invoke(testToolContext(), "missing", nil)
	assert.ErrorIs(t, err, core.ErrUnknownTool)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "missing")
	assert.Equal(t, "call-1", res.CallID)
}

func TestRegistry_InvokeInvalidArguments(t *testing.T) {
	r, err := NewRegistry(sumTool())
	require.NoError(t, err)

	t.Run("missing required field", func(t *testing.T) {
		res, err := r.Invoke(testToolContext(), "calculate_sum", map[string]any{"a": 1.0})
		assert.ErrorIs(t, err, core.ErrInvalidArguments)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "b", vErr.Field)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content, CodeValidation)
	})

	t.Run("wrong primitive type", func(t *testing.T) {
		_, err := r.Invoke(testToolContext(), "calculate_sum", map[string]any{"a": "one", "b": 2.0})
		assert.ErrorIs(t, err, core.ErrInvalidArguments)
	})
}

func TestRegistry_HandlerErrorIsAbsorbed(t *testing.T) {
	failing := NewFunctionTool("fail", "always fails", nil, func(*core.ToolContext, map[string]any) (any, error) {
		return nil, errors.New("upstream unavailable")
	})

	r, err := NewRegistry(failing)
	require.NoError(t, err)

	res, err := r.Invoke(testToolContext(), "fail", map[string]any{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "upstream unavailable")
	assert.Contains(t, res.Content, CodeExecution)
}

func TestRegistry_PanicIsAbsorbed(t *testing.T) {
	panicky := NewFunctionTool("boom", "panics", nil, func(*core.ToolContext, map[string]any) (any, error) {
		panic("kaboom")
	})

	r, err := NewRegistry(panicky)
	require.NoError(t, err)

	res, err := r.Invoke(testToolContext(), "boom", nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "kaboom")
}

type stringerResult struct{ v string }

func (s stringerResult) String() string { return "value=" + s.v }

func TestRegistry_RendersResults(t *testing.T) {
	tests := []struct {
		name string
		out  any
		want string
	}{
		{"nil", nil, ""},
		{"string", "plain", "plain"},
		{"bytes", []byte("raw"), "raw"},
		{"stringer", stringerResult{v: "x"}, "value=x"},
		{"struct", struct {
			N int `json:"n"`
		}{N: 4}, `{"n":4}`},
		{"map", map[string]any{"ok": true}, `{"ok":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.out
			r, err := NewRegistry(NewFunctionTool("render", "", nil, func(*core.ToolContext, map[string]any) (any, error) {
				return out, nil
			}))
			require.NoError(t, err)

			res, err := r.Invoke(testToolContext(), "render", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Content)
		})
	}
}

func TestRegistry_DefinitionsSubsetClone(t *testing.T) {
	noop := func(*core.ToolContext, map[string]any) (any, error) { return "ok", nil }
	r, err := NewRegistry(
		NewFunctionTool("zeta", "z", nil, noop),
		NewFunctionTool("alpha", "a", nil, noop),
		NewFunctionTool("mid", "m", nil, noop),
	)
	require.NoError(t, err)

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "mid", defs[1].Name)
	assert.Equal(t, "zeta", defs[2].Name)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Names())

	sub, err := r.Subset("mid", "alpha", "mid")
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "alpha"}, sub.Names())

	_, err = r.Subset("nope")
	assert.ErrorIs(t, err, core.ErrUnknownTool)

	c := r.Clone()
	require.NoError(t, c.Register(NewFunctionTool("extra", "", nil, noop)))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 3, r.Len())
}

// -------------------- TypedTool Tests --------------------

type searchReq struct {
	Query      string `json:"query" description:"search query"`
	MaxResults int    `json:"max_results,omitempty"`
	Topic      string `json:"topic,omitempty" enum:"general,news"`
}

func (r searchReq) Validate() error {
	if r.MaxResults < 0 {
		return errors.New("max_results must not be negative")
	}
	return nil
}

func TestTypedTool_DecodesAndValidates(t *testing.T) {
	var got searchReq
	typed := NewTypedTool("search", "Search", func(_ *core.ToolContext, req searchReq) (map[string]any, error) {
		got = req
		return map[string]any{"hits": req.MaxResults}, nil
	})

	schema := typed.Parameters()
	assert.Equal(t, []string{"query"}, schema["required"])

	r, err := NewRegistry(typed)
	require.NoError(t, err)

	res, err := r.Invoke(testToolContext(), "search", map[string]any{"query": "acme", "max_results": 3.0, "topic": "news"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, `{"hits":3}`, res.Content)
	assert.Equal(t, searchReq{Query: "acme", MaxResults: 3, Topic: "news"}, got)

	res, err = r.Invoke(testToolContext(), "search", map[string]any{"query": "acme", "max_results": -1.0})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "must not be negative")

	_, err = r.Invoke(testToolContext(), "search", map[string]any{"query": "acme", "topic": "finance"})
	assert.ErrorIs(t, err, core.ErrInvalidArguments)
}

func TestTypedTool_WithParameters(t *testing.T) {
	typed := NewTypedTool("x", "", func(*core.ToolContext, searchReq) (string, error) { return "", nil }).
		WithParameters(map[string]any{"type": "object"})

	assert.Equal(t, map[string]any{"type": "object"}, typed.Parameters())
}

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("x", "boom", CodeExecution)
	assert.Equal(t, "tool error [EXECUTION_ERROR] in x: boom", err.Error())

	err.Code = ""
	assert.Equal(t, "tool error in x: boom", err.Error())
}
