// Package search provides the internet_search tool backed by the Tavily web
// search API.
package search

import (
	"errors"
	"fmt"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/tool"
)

// ToolName is the model-facing name of the search tool.
const ToolName = "internet_search"

// Defaults applied when the model omits optional arguments.
const (
	DefaultMaxResults = 7
	DefaultTopic      = TopicFinance
	maxResultsLimit   = 20
)

type searchRequest struct {
	Query             string `json:"query" description:"The search query"`
	MaxResults        int    `json:"max_results,omitempty" description:"Maximum number of results to return (default 7)"`
	Topic             Topic  `json:"topic,omitempty" enum:"general,news,finance" description:"Search category (default finance)"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty" description:"Include the cleaned page content of each result"`
}

func (r searchRequest) Validate() error {
	if r.Query == "" {
		return errors.New("query is required")
	}
	if r.MaxResults < 0 || r.MaxResults > maxResultsLimit {
		return fmt.Errorf("max_results must be between 1 and %d", maxResultsLimit)
	}
	return nil
}

// NewInternetSearchTool exposes s as the internet_search tool.
func NewInternetSearchTool(s Searcher) tool.Tool {
	return tool.NewTypedTool(
		ToolName,
		"Run a web search. Returns titles, URLs and content snippets of the best matching pages.",
		func(toolCtx *core.ToolContext, req searchRequest) (*Response, error) {
			if req.MaxResults == 0 {
				req.MaxResults = DefaultMaxResults
			}
			if req.Topic == "" {
				req.Topic = DefaultTopic
			}

			resp, err := s.Search(toolCtx.Context(), Request(req))
			if err != nil {
				return nil, tool.NewToolError(ToolName, err.Error(), tool.CodeExecution)
			}

			toolCtx.LogDebug("search.completed", "query", req.Query, "results", len(resp.Results))

			return resp, nil
		},
	)
}
