package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/tools"
)

// DefaultTavilyURL is the Tavily search API
const DefaultTavilyURL = "https://api.tavily.com"

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyResponse struct {
	Query     string         `json:"query"`
	Results   []tavilyResult `json:"results"`
	RequestID string         `json:"request_id"`
}

// TavilyClient is a Searcher backed by the Tavily API
type TavilyClient struct {
	apiKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewTavilyClient creates a Tavily backend and registers the web_search tool on it
func NewTavilyClient(apiKey, baseURL string, timeout time.Duration, registry *tools.Registry) *TavilyClient {
	if apiKey == "" {
		log.Warn(context.Background(), "Tavily API key is empty, web search will fail")
	}
	if baseURL == "" {
		baseURL = DefaultTavilyURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &TavilyClient{
		apiKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if registry != nil {
		NewWebSearchTool(c, registry)
	}
	return c
}

func (c *TavilyClient) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}
	if count <= 0 {
		count = defaultResults
	}

	body, err := json.Marshal(tavilyRequest{
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  count,
		Topic:       "general",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debugf(ctx, "[Tavily] Sending search request: query=%s, max_results=%d", query, count)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	var out tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	log.Debugf(ctx, "[Tavily] Search completed: %d results", len(out.Results))

	results := make([]Result, 0, len(out.Results))
	for _, r := range out.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(r.Title),
			URL:     r.URL,
			Snippet: strings.Join(strings.Fields(r.Content), " "),
		})
	}
	if len(results) > count {
		results = results[:count]
	}
	return results, nil
}
