// Package gemini provides a model.Model backed by Google Gemini through the
// google.golang.org/genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/model"
)

const providerName = "gemini"

// Options configures the Gemini adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	APIKey          string
}

func defaultOptions() Options {
	return Options{
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 8192,
	}
}

// Model wraps the Gemini GenerateContent API behind model.Model.
type Model struct {
	client Client
	opts   Options
}

// NewModel creates a Gemini model using the Gemini API backend. Without an
// APIKey the SDK reads GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Model{client: NewClient(client), opts: opts}, nil
}

// NewModelFromClient creates a Gemini model from an existing Client.
func NewModelFromClient(client Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate sends the history to Gemini and converts the first candidate into
// an assistant message.
func (m *Model) Generate(ctx context.Context, req model.Request) (core.Message, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.opts.Temperature),
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}

	if req.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(req.Instructions, genai.RoleUser)
	}

	if len(req.Tools) > 0 {
		config.Tools = toGeminiTools(req.Tools)
	}

	resp, err := m.client.GenerateContent(ctx, m.opts.Model, toGeminiContents(req.Messages), config)
	if err != nil {
		return core.Message{}, mapGeminiError(err)
	}

	return fromGeminiResponse(resp)
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      providerName,
		SupportsTools: true,
	}
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) (core.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return core.Message{}, &model.Error{Provider: providerName, Err: model.ErrNoCandidates}
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return core.Message{}, &model.Error{Provider: providerName, Err: errors.New("content blocked by safety filters")}
	}

	var (
		text  string
		calls []core.ToolCall
	)

	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			calls = append(calls, core.ToolCall{
				ID:        part.FunctionCall.ID,
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
			continue
		}
		if part.Text != "" && !part.Thought {
			text += part.Text
		}
	}

	return core.NewAssistantMessage(text, calls...), nil
}

// mapGeminiError classifies SDK errors. Gemini returns APIError by value.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return model.NewError(providerName, apiErr.Code, err)
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return model.NewError(providerName, apiErrPtr.Code, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return &model.Error{Provider: providerName, Transient: true, Err: err}
}
