package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/tools"
)

const (
	defaultResults = 3
	maxResults     = 10
)

// Searcher is a web search backend
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// WebSearchTool searches the web through a Searcher
type WebSearchTool struct {
	client Searcher
}

func NewWebSearchTool(client Searcher, registry *tools.Registry) *WebSearchTool {
	t := &WebSearchTool{client: client}
	if registry != nil {
		registry.Register(t)
	}
	return t
}

func (t *WebSearchTool) Name() string {
	return "web_search"
}

func (t *WebSearchTool) Description() string {
	return "Search the web for current information, news, facts, or answers. Use this when you need up-to-date information beyond your knowledge cutoff."
}

func (t *WebSearchTool) Parameters() []tools.Parameter {
	return []tools.Parameter{
		{
			Name:        "query",
			Type:        tools.TypeString,
			Description: "The search query (e.g., 'latest AI news', 'weather in Paris')",
			Required:    true,
		},
		{
			Name:        "num_results",
			Type:        tools.TypeInteger,
			Description: "Number of results to return (1-10)",
			Default:     defaultResults,
		},
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	query, _ := tools.String(args, "query")
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query is required")
	}
	if t.client == nil {
		return "", errors.New("search client not initialized")
	}

	count := tools.Int(args, "num_results", defaultResults)
	if count < 1 {
		count = 1
	}
	if count > maxResults {
		count = maxResults
	}

	log.Debugf(ctx, "WebSearchTool executing query=%q count=%d", query, count)
	results, err := t.client.Search(ctx, query, count)
	if err != nil {
		log.Errorf(ctx, "WebSearchTool failed: %v", err)
		return "", err
	}

	return FormatResults(results), nil
}

func (t *WebSearchTool) FormatError(args map[string]interface{}, err error) string {
	return fmt.Sprintf("❌ Search error: %v", err)
}

// FormatResults renders results as a numbered list for the model and user
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found for your search query."
	}

	parts := make([]string, 0, len(results)+1)
	parts = append(parts, "🔍 Search Results:\n")
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("%d. **%s**\n   🔗 %s\n   📝 %s\n", i+1, r.Title, r.URL, r.Snippet))
	}
	return strings.Join(parts, "\n")
}
