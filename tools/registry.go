package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sumittt2004/agentforge/log"
)

// Registry manages the registration of agent tools. It is both the tool
// catalog handed to the model and the invoker that dispatches calls.
type Registry struct {
	mu    sync.RWMutex
	tools []Tool
	index map[string]int
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make([]Tool, 0),
		index: make(map[string]int),
	}
}

// Register adds a tool to the registry. Registering a name twice replaces
// the earlier tool in place, keeping its catalog position.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[tool.Name()]; ok {
		log.Warnf(context.Background(), "Tool %s registered twice, replacing", tool.Name())
		r.tools[i] = tool
		return
	}
	r.index[tool.Name()] = len(r.tools)
	r.tools = append(r.tools, tool)
}

// Get returns the tool registered under name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.tools[i], true
}

// Names returns the registered tool names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name()
	}
	return names
}

// Definitions returns the catalog in registration order
func (r *Registry) Definitions() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]ToolSpec, len(r.tools))
	for i, t := range r.tools {
		specs[i] = SpecOf(t)
	}
	return specs
}

// Execute runs a registered tool by name and always returns display text.
// Unknown tools, missing arguments, tool errors and panics are all reported
// as text so the caller can hand them back to the model.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (result string) {
	tool, ok := r.Get(name)
	if !ok {
		log.Warnf(ctx, "Unknown tool requested: %s", name)
		return fmt.Sprintf("❌ Error: Unknown tool '%s'", name)
	}

	clean := DropNil(args)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf(ctx, "Tool %s panicked: %v", name, rec)
			result = formatError(tool, clean, fmt.Errorf("panic: %v", rec))
		}
		log.Debugf(ctx, "Tool %s finished in %s", name, time.Since(start))
	}()

	if missing := missingRequired(tool, clean); len(missing) > 0 {
		err := fmt.Errorf("missing required argument(s): %s", strings.Join(missing, ", "))
		return formatError(tool, clean, err)
	}

	log.Debugf(ctx, "Executing tool %s with %d argument(s)", name, len(clean))
	out, err := tool.Execute(ctx, clean)
	if err != nil {
		log.Warnf(ctx, "Tool %s failed: %v", name, err)
		return formatError(tool, clean, err)
	}
	return out
}

func missingRequired(tool Tool, args map[string]interface{}) []string {
	var missing []string
	for _, p := range tool.Parameters() {
		if !p.Required {
			continue
		}
		if _, ok := args[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

func formatError(tool Tool, args map[string]interface{}, err error) string {
	if f, ok := tool.(ErrorFormatter); ok {
		return f.FormatError(args, err)
	}
	return fmt.Sprintf("❌ Error executing %s: %v", tool.Name(), err)
}
