package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Client is the subset of the Gemini API used by Model. It allows tests to
// replace the SDK client.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// sdkClient wraps the official SDK client to satisfy Client.
type sdkClient struct {
	client *genai.Client
}

// NewClient wraps an SDK client.
func NewClient(client *genai.Client) Client {
	return &sdkClient{client: client}
}

func (c *sdkClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}
