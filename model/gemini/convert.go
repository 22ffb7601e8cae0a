package gemini

import (
	"google.golang.org/genai"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/model"
)

// toGeminiContents converts the history to Gemini contents. Consecutive tool
// results are grouped into one user turn of function responses.
func toGeminiContents(history []core.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))

	var responses []*genai.Part
	flush := func() {
		if len(responses) > 0 {
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: responses})
			responses = nil
		}
	}

	for _, msg := range history {
		switch msg.Role {
		case core.RoleTool:
			if msg.ToolResult == nil {
				continue
			}
			responses = append(responses, toFunctionResponse(*msg.ToolResult))
		case core.RoleAssistant:
			flush()
			if c := assistantContent(msg); c != nil {
				contents = append(contents, c)
			}
		default:
			flush()
			if msg.Content != "" {
				contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
			}
		}
	}

	flush()

	return contents
}

func assistantContent(msg core.Message) *genai.Content {
	parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)

	if msg.Content != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}

	for _, call := range msg.ToolCalls {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   call.ID,
				Name: call.Name,
				Args: call.Arguments,
			},
		})
	}

	if len(parts) == 0 {
		return nil
	}

	return &genai.Content{Role: genai.RoleModel, Parts: parts}
}

func toFunctionResponse(res core.ToolResult) *genai.Part {
	response := map[string]any{"output": res.Content}
	if res.IsError {
		response = map[string]any{"error": res.Content}
	}

	return &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			ID:       res.CallID,
			Name:     res.Name,
			Response: response,
		},
	}
}

// toGeminiTools converts tool definitions to a single Gemini tool with one
// function declaration per definition.
func toGeminiTools(tools []model.ToolDefinition) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))

	for _, tool := range tools {
		fd := &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		}
		if tool.Parameters != nil {
			fd.Parameters = toGeminiSchema(tool.Parameters)
		}
		decls = append(decls, fd)
	}

	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// toGeminiSchema converts a JSON schema map into a genai.Schema, recursing
// into properties and array items.
func toGeminiSchema(params map[string]any) *genai.Schema {
	typ, _ := params["type"].(string)
	schema := &genai.Schema{Type: toGeminiType(typ)}

	if desc, ok := params["description"].(string); ok {
		schema.Description = desc
	}

	if enum := stringList(params["enum"]); len(enum) > 0 {
		schema.Enum = enum
	}

	if props, ok := params["properties"].(map[string]any); ok && len(props) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				schema.Properties[name] = toGeminiSchema(pm)
			}
		}
	}

	if items, ok := params["items"].(map[string]any); ok {
		schema.Items = toGeminiSchema(items)
	} else if schema.Type == genai.TypeArray {
		schema.Items = &genai.Schema{Type: genai.TypeString}
	}

	if req := stringList(params["required"]); len(req) > 0 {
		schema.Required = req
	}

	return schema
}

// toGeminiType converts string type to Gemini Type.
func toGeminiType(typeStr string) genai.Type {
	switch typeStr {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object", "":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
