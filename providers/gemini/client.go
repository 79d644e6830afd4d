// Package gemini implements llm.Client on the Gemini API using the official SDK.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/sumittt2004/agentforge/llm"
	"github.com/sumittt2004/agentforge/log"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// Client handles Gemini API requests using the official SDK
type Client struct {
	APIKey string
	model  string
	client *genai.Client
}

// Ensure Client satisfies llm.Client
var _ llm.Client = (*Client)(nil)

// NewClient creates a new Gemini API client
// Returns an error if the client cannot be initialized
func NewClient(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		APIKey: apiKey,
		model:  model,
		client: client,
	}, nil
}

// Complete replays the conversation as a chat session and sends its last
// user-side content.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}

	name := req.Model
	if name == "" {
		name = c.model
	}
	model := c.client.GenerativeModel(name)
	configureModel(model, req)

	system, history, err := toContents(req.Messages)
	if err != nil {
		return nil, err
	}
	if system != nil {
		model.SystemInstruction = system
	}
	last := history[len(history)-1]

	cs := model.StartChat()
	cs.History = history[:len(history)-1]

	log.Debugf(ctx, "Requesting Gemini completion model=%s contents=%d tools=%d", name, len(history), len(req.Tools))
	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return fromResponse(resp)
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

func configureModel(model *genai.GenerativeModel, req llm.Request) {
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if len(req.Tools) == 0 {
		return
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
	for _, t := range req.Tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toSchema(t.Parameters),
		})
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}

	mode := genai.FunctionCallingAuto
	if req.ToolChoice == llm.ToolChoiceNone {
		mode = genai.FunctionCallingNone
	}
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: mode},
	}
}

// toSchema converts a JSON schema object into the SDK's schema type.
// Unknown keywords are ignored.
func toSchema(raw map[string]any) *genai.Schema {
	if raw == nil {
		return nil
	}

	s := &genai.Schema{}
	switch raw["type"] {
	case "string":
		s.Type = genai.TypeString
	case "number":
		s.Type = genai.TypeNumber
	case "integer":
		s.Type = genai.TypeInteger
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
	default:
		s.Type = genai.TypeObject
	}
	if d, ok := raw["description"].(string); ok {
		s.Description = d
	}
	if items, ok := raw["items"].(map[string]any); ok {
		s.Items = toSchema(items)
	}
	if props, ok := raw["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for k, v := range props {
			if m, ok := v.(map[string]any); ok {
				s.Properties[k] = toSchema(m)
			}
		}
	}
	switch req := raw["required"].(type) {
	case []string:
		s.Required = append(s.Required, req...)
	case []any:
		for _, r := range req {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	return s
}

// toContents splits off the system prompt and folds the remaining messages
// into alternating user/model contents. Consecutive tool results become one
// user content of function responses.
func toContents(messages []llm.Message) (*genai.Content, []*genai.Content, error) {
	var system *genai.Content
	var contents []*genai.Content

	appendPart := func(role string, part genai.Part) {
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, part)
			return
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{part}})
	}

	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, genai.Text(m.Content))
		case llm.RoleAssistant:
			if m.Content != "" {
				appendPart("model", genai.Text(m.Content))
			}
			for _, tc := range m.ToolCalls {
				appendPart("model", genai.FunctionCall{Name: tc.Name, Args: parseArgs(tc.Arguments)})
			}
		case llm.RoleTool:
			appendPart("user", genai.FunctionResponse{
				Name:     m.Name,
				Response: map[string]any{"result": m.Content},
			})
		default:
			appendPart("user", genai.Text(m.Content))
		}
	}

	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("no messages to send")
	}
	if contents[len(contents)-1].Role != "user" {
		return nil, nil, fmt.Errorf("conversation must end with a user or tool message")
	}
	return system, contents, nil
}

func parseArgs(raw string) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{}
	}
	return args
}

// fromResponse reads text and function calls from the first candidate.
// Gemini does not assign call ids, so each call gets a fresh one.
func fromResponse(resp *genai.GenerateContentResponse) (*llm.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	out := &llm.Response{}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return out, nil
	}
	for _, part := range cand.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			out.Content += string(p)
		case genai.FunctionCall:
			args := p.Args
			if args == nil {
				args = map[string]any{}
			}
			encoded, err := json.Marshal(args)
			if err != nil {
				return nil, fmt.Errorf("failed to encode arguments for %s: %w", p.Name, err)
			}
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
				ID:        "call_" + uuid.NewString(),
				Name:      p.Name,
				Arguments: string(encoded),
			})
		}
	}
	return out, nil
}
