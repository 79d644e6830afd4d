// Package llm is the provider-neutral boundary between the agent loop and a
// chat-completion model.
package llm

import (
	"context"
	"errors"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Tool choice modes
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)

// ErrToolUseFailed marks a model call that failed because the model produced
// a malformed tool invocation. Callers may retry once without tools.
var ErrToolUseFailed = errors.New("tool use failed")

// ToolCall is a single tool invocation requested by the model.
// Arguments is the raw JSON object text as produced by the model and may be
// malformed.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one entry in the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// ToolCalls is set on assistant messages that requested tools.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID and Name are set on tool messages.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Tool describes a callable tool in JSON schema form.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type Request struct {
	Model       string
	Messages    []Message
	Tools       []Tool
	ToolChoice  string
	Temperature float64
	MaxTokens   int
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}

// Client completes a conversation. Implementations must wrap tool-format
// failures with ErrToolUseFailed so errors.Is can detect them.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// SystemMessage, UserMessage and friends build messages for the common roles.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

func ToolMessage(callID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Name: name}
}
