package agents

// EventType labels an item of the Chat event stream
type EventType string

const (
	EventToolCall   EventType = "tool_call"
	EventToolResult EventType = "tool_result"
	EventResponse   EventType = "response"
	EventError      EventType = "error"
)

// Event is one step reported by Chat. Name and Args are set on tool events,
// Content on results, responses and errors.
type Event struct {
	Type    EventType              `json:"type"`
	Name    string                 `json:"name,omitempty"`
	Args    map[string]interface{} `json:"args,omitempty"`
	Content string                 `json:"content,omitempty"`
}

// Terminal reports whether the event ends a Chat run
func (e Event) Terminal() bool {
	return e.Type == EventResponse || e.Type == EventError
}
