package tools

import "context"

// Tool defines the interface for all agent tools
type Tool interface {
	// Name returns the unique name of the tool (e.g. "get_weather")
	Name() string

	// Description tells the model what the tool does and when to use it
	Description() string

	// Parameters describes the accepted arguments in declaration order
	Parameters() []Parameter

	// Execute runs the tool with the given arguments and returns display text
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// ErrorFormatter is implemented by tools that render their own failure text
// instead of the generic "Error executing" message.
type ErrorFormatter interface {
	FormatError(args map[string]interface{}, err error) string
}
