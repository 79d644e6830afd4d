package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sumittt2004/agentforge/tools"
)

// DefaultBaseURL is DuckDuckGo's JavaScript-free endpoint
const DefaultBaseURL = "https://html.duckduckgo.com"

const userAgent = "Mozilla/5.0 (compatible; agentforge/1.0)"

// Result is a single search result
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Client queries the DuckDuckGo HTML endpoint and parses the result page
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new search client and registers the web_search tool
func NewClient(baseURL string, timeout time.Duration, registry *tools.Registry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}

	if registry != nil {
		NewWebSearchTool(c, registry)
	}
	return c
}

// Search returns at most count results for query
func (c *Client) Search(ctx context.Context, query string, count int) ([]Result, error) {
	params := url.Values{"q": {query}}
	reqURL := fmt.Sprintf("%s/html/?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	results, err := parseResults(string(body))
	if err != nil {
		return nil, err
	}
	if count > 0 && len(results) > count {
		results = results[:count]
	}
	return results, nil
}
