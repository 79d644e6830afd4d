// Package openai implements llm.Client on the OpenAI chat completions API.
// Groq is served by the same client through its OpenAI-compatible endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sumittt2004/agentforge/llm"
	"github.com/sumittt2004/agentforge/log"
)

// Client handles chat completion requests against an OpenAI-compatible API
type Client struct {
	client sdk.Client
	model  string
}

// Ensure Client satisfies llm.Client
var _ llm.Client = (*Client)(nil)

// NewClient creates a client. An empty baseURL uses the OpenAI default.
// Extra request options are appended after the key and base URL.
func NewClient(apiKey, baseURL, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(2),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &Client{
		client: sdk.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Complete sends the conversation and returns the first choice
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	params := sdk.ChatCompletionNewParams{
		Model:       sdk.ChatModel(model),
		Messages:    toMessageParams(req.Messages),
		Temperature: sdk.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(req.MaxTokens))
	}
	if len(req.Tools) > 0 {
		params.Tools = toToolParams(req.Tools)
		choice := req.ToolChoice
		if choice == "" {
			choice = llm.ToolChoiceAuto
		}
		params.ToolChoice = sdk.ChatCompletionToolChoiceOptionUnionParam{OfAuto: sdk.String(choice)}
	}

	log.Debugf(ctx, "Requesting completion model=%s messages=%d tools=%d", model, len(req.Messages), len(req.Tools))
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	msg := resp.Choices[0].Message
	out := &llm.Response{
		Content: msg.Content,
		Usage: llm.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func toMessageParams(messages []llm.Message) []sdk.ChatCompletionMessageParamUnion {
	params := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			params = append(params, sdk.SystemMessage(m.Content))
		case llm.RoleAssistant:
			params = append(params, assistantParam(m))
		case llm.RoleTool:
			params = append(params, sdk.ToolMessage(m.Content, m.ToolCallID))
		default:
			params = append(params, sdk.UserMessage(m.Content))
		}
	}
	return params
}

func assistantParam(m llm.Message) sdk.ChatCompletionMessageParamUnion {
	if len(m.ToolCalls) == 0 {
		return sdk.AssistantMessage(m.Content)
	}

	assistant := sdk.ChatCompletionAssistantMessageParam{}
	if m.Content != "" {
		assistant.Content.OfString = sdk.String(m.Content)
	}
	for _, tc := range m.ToolCalls {
		assistant.ToolCalls = append(assistant.ToolCalls, sdk.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: sdk.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return sdk.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

func toToolParams(tools []llm.Tool) []sdk.ChatCompletionToolParam {
	params := make([]sdk.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		fn := sdk.FunctionDefinitionParam{
			Name:       t.Name,
			Parameters: sdk.FunctionParameters(t.Parameters),
		}
		if t.Description != "" {
			fn.Description = sdk.String(t.Description)
		}
		params = append(params, sdk.ChatCompletionToolParam{Function: fn})
	}
	return params
}

// mapError flags malformed tool generations so the caller can fall back to
// a plain completion. Groq reports them as code tool_use_failed with a
// failed_generation payload.
func mapError(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == "tool_use_failed" || strings.Contains(apiErr.RawJSON(), "failed_generation") {
			return fmt.Errorf("%w: %s", llm.ErrToolUseFailed, apiErr.Message)
		}
		return fmt.Errorf("completion failed with status %d: %s", apiErr.StatusCode, apiErr.Message)
	}

	msg := err.Error()
	if strings.Contains(msg, "tool_use_failed") || strings.Contains(msg, "failed_generation") {
		return fmt.Errorf("%w: %v", llm.ErrToolUseFailed, err)
	}
	return fmt.Errorf("completion failed: %w", err)
}
