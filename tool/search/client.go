package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Tavily API endpoint.
const DefaultBaseURL = "https://api.tavily.com"

// ErrDecodeResponse is returned when the search API answers with a body that
// is not valid JSON.
var ErrDecodeResponse = errors.New("failed to decode search response")

// Topic selects the search category.
type Topic string

const (
	TopicGeneral Topic = "general"
	TopicNews    Topic = "news"
	TopicFinance Topic = "finance"
)

// Request is one web search.
type Request struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results,omitempty"`
	Topic             Topic  `json:"topic,omitempty"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
}

// Result is one search hit.
type Result struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	Score      float64 `json:"score,omitempty"`
	RawContent string  `json:"raw_content,omitempty"`
}

// Response is the search API answer.
type Response struct {
	Query        string   `json:"query"`
	Answer       string   `json:"answer,omitempty"`
	Results      []Result `json:"results"`
	ResponseTime float64  `json:"response_time,omitempty"`
}

// APIError is a non-2xx answer from the search API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search api error (status %d): %s", e.StatusCode, e.Message)
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, req Request) (*Response, error)
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// HTTPClient is used for all requests. Defaults to a client with Timeout.
	HTTPClient *http.Client
	// Timeout bounds a single search when HTTPClient is nil.
	Timeout time.Duration
}

// Client is a Tavily search API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// NewClient creates a Client authenticating with apiKey.
func NewClient(apiKey string, optFns ...func(o *ClientOptions)) (*Client, error) {
	opts := ClientOptions{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("new client: api key is required")
	}

	parsed, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("new client: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("new client: base URL must include scheme and host")
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		apiKey:     apiKey,
		httpClient: opts.HTTPClient,
	}, nil
}

// Search implements Searcher.
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}

	return &out, nil
}

// errorMessage extracts {"detail": {"error": "..."}} or {"detail": "..."}
// from an error body and falls back to the raw text.
func errorMessage(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}

	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var nested struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body.Detail, &nested) == nil && nested.Error != "" {
			return nested.Error
		}

		var text string
		if json.Unmarshal(body.Detail, &text) == nil && text != "" {
			return text
		}
	}

	return strings.TrimSpace(string(raw))
}
