package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumittt2004/agentforge/tools"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<div class="serp__results">
  <div class="result results_links results_links_deep result--ad">
    <div class="links_main links_deep result__body">
      <h2 class="result__title"><a class="result__a" href="https://ads.example/">Sponsored</a></h2>
      <a class="result__snippet" href="https://ads.example/">Buy things</a>
    </div>
  </div>
  <div class="result results_links results_links_deep web-result">
    <div class="links_main links_deep result__body">
      <h2 class="result__title">
        <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&amp;rut=abc">The   <b>Go</b> Documentation</a>
      </h2>
      <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F">Official <b>Go</b> docs,
        tutorials and more.</a>
    </div>
  </div>
  <div class="result results_links results_links_deep web-result">
    <div class="links_main links_deep result__body">
      <h2 class="result__title"><a rel="nofollow" class="result__a" href="https://pkg.go.dev/">Go Packages</a></h2>
      <div class="result__snippet">Discover packages.</div>
    </div>
  </div>
  <div class="result results_links results_links_deep web-result">
    <div class="links_main links_deep result__body">
      <h2 class="result__title"><a rel="nofollow" class="result__a" href="https://go.dev/blog/">The Go Blog</a></h2>
    </div>
  </div>
  <div class="result results_links web-result">
    <div class="result__body">no link here</div>
  </div>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	results, err := parseResults(samplePage)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, Result{
		Title:   "The Go Documentation",
		URL:     "https://go.dev/doc/",
		Snippet: "Official Go docs, tutorials and more.",
	}, results[0])
	assert.Equal(t, "https://pkg.go.dev/", results[1].URL)
	assert.Equal(t, "Discover packages.", results[1].Snippet)
	assert.Equal(t, "The Go Blog", results[2].Title)
	assert.Empty(t, results[2].Snippet)
}

func TestResolveLink(t *testing.T) {
	assert.Equal(t, "https://example.com/a b", resolveLink("//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa%20b&rut=x"))
	assert.Equal(t, "https://example.com/", resolveLink("https://example.com/"))
	assert.Equal(t, "https://duckduckgo.com/l/", resolveLink("//duckduckgo.com/l/"))
}

func TestClient_Search(t *testing.T) {
	var gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	results, err := client.Search(context.Background(), "golang docs", 2)
	require.NoError(t, err)

	assert.Equal(t, "/html/", gotPath)
	assert.Equal(t, "golang docs", gotQuery)
	assert.Len(t, results, 2)
}

func TestClient_SearchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestWebSearchTool_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	registry := tools.NewRegistry()
	NewClient(srv.URL, time.Second, registry)

	res := registry.Execute(context.Background(), "web_search", map[string]interface{}{"query": "go", "num_results": 1.0})
	assert.Equal(t, "🔍 Search Results:\n\n"+
		"1. **The Go Documentation**\n"+
		"   🔗 https://go.dev/doc/\n"+
		"   📝 Official Go docs, tutorials and more.\n", res)

	res = registry.Execute(context.Background(), "web_search", map[string]interface{}{"query": "go"})
	assert.Contains(t, res, "3. **The Go Blog**")
}

func TestWebSearchTool_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing</body></html>"))
	}))
	defer srv.Close()

	registry := tools.NewRegistry()
	NewClient(srv.URL, time.Second, registry)

	res := registry.Execute(context.Background(), "web_search", map[string]interface{}{"query": "zzz"})
	assert.Equal(t, "No results found for your search query.", res)

	res = registry.Execute(context.Background(), "web_search", map[string]interface{}{"query": "   "})
	assert.True(t, strings.HasPrefix(res, "❌ Search error:"), res)
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]Result{
		{Title: "A", URL: "https://a", Snippet: "first"},
		{Title: "B", URL: "https://b", Snippet: "second"},
	})
	assert.Equal(t, "🔍 Search Results:\n\n"+
		"1. **A**\n   🔗 https://a\n   📝 first\n\n"+
		"2. **B**\n   🔗 https://b\n   📝 second\n", out)
}
