package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumittt2004/agentforge/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", srv.URL+"/v1", "llama-3.3-70b-versatile", option.WithMaxRetries(0))
	require.NoError(t, err)
	return client, srv
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("", "", "gpt-4o-mini")
	assert.Error(t, err)
}

func TestClient_CompleteRequestShape(t *testing.T) {
	var body map[string]interface{}
	var path, auth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "finish_reason": "tool_calls", "message": {
				"role": "assistant", "content": "",
				"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "get_weather", "arguments": "{\"city\":\"Paris\"}"}}]
			}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	resp, err := client.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{
			llm.SystemMessage("sys"),
			llm.UserMessage("weather?"),
			llm.AssistantMessage("", llm.ToolCall{ID: "call_0", Name: "get_current_datetime", Arguments: "{}"}),
			llm.ToolMessage("call_0", "get_current_datetime", "noon"),
		},
		Tools: []llm.Tool{{
			Name:        "get_weather",
			Description: "weather lookup",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{"city": map[string]any{"type": "string"}},
				"required":   []string{"city"},
			},
		}},
		ToolChoice:  llm.ToolChoiceAuto,
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	assert.Equal(t, "auto", body["tool_choice"])
	assert.Equal(t, 0.7, body["temperature"])
	assert.Equal(t, 2000.0, body["max_tokens"])

	msgs := body["messages"].([]interface{})
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assistant := msgs[2].(map[string]interface{})
	assert.Equal(t, "assistant", assistant["role"])
	calls := assistant["tool_calls"].([]interface{})
	require.Len(t, calls, 1)
	assert.Equal(t, "call_0", calls[0].(map[string]interface{})["id"])
	tool := msgs[3].(map[string]interface{})
	assert.Equal(t, "tool", tool["role"])
	assert.Equal(t, "call_0", tool["tool_call_id"])

	toolsSent := body["tools"].([]interface{})
	require.Len(t, toolsSent, 1)
	fn := toolsSent[0].(map[string]interface{})["function"].(map[string]interface{})
	assert.Equal(t, "get_weather", fn["name"])
	assert.Equal(t, "weather lookup", fn["description"])

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, llm.ToolCall{ID: "call_1", Name: "get_weather", Arguments: `{"city":"Paris"}`}, resp.ToolCalls[0])
	assert.Equal(t, llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, resp.Usage)
}

func TestClient_CompleteWithoutTools(t *testing.T) {
	var body map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Today is Monday"}}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	})

	resp, err := client.Complete(context.Background(), llm.Request{Model: "override", Messages: []llm.Message{llm.UserMessage("hi")}})
	require.NoError(t, err)

	assert.Equal(t, "Today is Monday", resp.Content)
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, "override", body["model"])
	_, hasTools := body["tools"]
	assert.False(t, hasTools)
	_, hasChoice := body["tool_choice"]
	assert.False(t, hasChoice)

	// A zero temperature is a real setting and must reach the API
	temperature, ok := body["temperature"]
	require.True(t, ok)
	assert.Equal(t, 0.0, temperature)
}

func TestClient_CompleteErrors(t *testing.T) {
	t.Run("tool use failed", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Failed to call a function.","type":"invalid_request_error","code":"tool_use_failed","failed_generation":"<function=x>"}}`))
		})

		_, err := client.Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.UserMessage("hi")}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, llm.ErrToolUseFailed))
	})

	t.Run("failed generation only", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"bad output","type":"invalid_request_error","failed_generation":"oops"}}`))
		})

		_, err := client.Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.UserMessage("hi")}})
		assert.True(t, errors.Is(err, llm.ErrToolUseFailed))
	})

	t.Run("generic", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`))
		})

		_, err := client.Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.UserMessage("hi")}})
		require.Error(t, err)
		assert.False(t, errors.Is(err, llm.ErrToolUseFailed))
		assert.Contains(t, err.Error(), "Invalid API Key")
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("no choices", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"c","object":"chat.completion","created":1,"model":"m","choices":[]}`))
		})

		_, err := client.Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.UserMessage("hi")}})
		assert.Error(t, err)
	})
}
