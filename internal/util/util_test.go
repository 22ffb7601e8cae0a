package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type todoArgs struct {
	Content string `json:"content" description:"Task text"`
	Status  string `json:"status" enum:"pending,in_progress,completed"`
}

type writeArgs struct {
	Todos []todoArgs `json:"todos"`
	Note  *string    `json:"note"`
	Limit int        `json:"limit,omitempty"`
}

func TestCreateSchema_NestedAndEnum(t *testing.T) {
	schema := CreateSchema(writeArgs{})

	props := schema["properties"].(map[string]any)
	todos := props["todos"].(map[string]any)
	assert.Equal(t, "array", todos["type"])

	items := todos["items"].(map[string]any)
	itemProps := items["properties"].(map[string]any)
	status := itemProps["status"].(map[string]any)
	assert.Equal(t, []string{"pending", "in_progress", "completed"}, status["enum"])

	assert.ElementsMatch(t, []string{"todos"}, schema["required"])
}

func TestValidateParameters_RequiredStringSlice(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
		},
		"required": []string{"query"},
	}

	err := ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "query", vErr.Field)

	assert.Error(t, ValidateParameters(map[string]any{"query": nil}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"query": "tesla"}, schema))
}

func TestValidateParameters_TypesAndEnum(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"max_results": map[string]any{"type": "integer"},
			"topic":       map[string]any{"type": "string", "enum": []any{"general", "news", "finance"}},
		},
	}

	assert.NoError(t, ValidateParameters(map[string]any{"max_results": 5.0, "topic": "news"}, schema))

	err := ValidateParameters(map[string]any{"max_results": 2.5}, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected type integer")

	err = ValidateParameters(map[string]any{"topic": "sports"}, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	out, err = RenderTemplate("{{range .Agents}}- {{.}}\n{{end}}", map[string]any{"Agents": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b\n", out)

	_, err = RenderTemplate("{{.Missing}}", map[string]any{})
	assert.Error(t, err)
}

func TestCreateSchema_NonStruct(t *testing.T) {
	for _, in := range []any{nil, "text", 42} {
		schema := CreateSchema(in)
		assert.Equal(t, "object", schema["type"])
		assert.Empty(t, schema["properties"])
		assert.NotContains(t, schema, "required")
	}
}
