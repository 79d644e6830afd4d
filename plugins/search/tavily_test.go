package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumittt2004/agentforge/tools"
)

func TestTavilyClient_Search(t *testing.T) {
	var got tavilyRequest
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":"go","request_id":"r1","results":[
			{"title":" Go ","url":"https://go.dev/","content":"The Go\n  programming language","score":0.9},
			{"title":"broken","url":"","content":"x"},
			{"title":"Packages","url":"https://pkg.go.dev/","content":"Discover packages.","score":0.5}
		]}`))
	}))
	defer srv.Close()

	client := NewTavilyClient("tvly-test", srv.URL+"/", time.Second, nil)
	results, err := client.Search(context.Background(), "go", 2)
	require.NoError(t, err)

	assert.Equal(t, "/search", path)
	assert.Equal(t, "Bearer tvly-test", auth)
	assert.Equal(t, tavilyRequest{Query: "go", SearchDepth: "basic", MaxResults: 2, Topic: "general"}, got)
	assert.Equal(t, []Result{
		{Title: "Go", URL: "https://go.dev/", Snippet: "The Go programming language"},
		{Title: "Packages", URL: "https://pkg.go.dev/", Snippet: "Discover packages."},
	}, results)
}

func TestTavilyClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewTavilyClient("bad", srv.URL, time.Second, nil)
	_, err := client.Search(context.Background(), "go", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = client.Search(context.Background(), "", 3)
	assert.Error(t, err)
}

func TestTavilyClient_RegistersWebSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"title":"A","url":"https://a","content":"first"}]}`))
	}))
	defer srv.Close()

	registry := tools.NewRegistry()
	NewTavilyClient("tvly-test", srv.URL, time.Second, registry)

	res := registry.Execute(context.Background(), "web_search", map[string]interface{}{"query": "a"})
	assert.Equal(t, "🔍 Search Results:\n\n1. **A**\n   🔗 https://a\n   📝 first\n", res)
}
