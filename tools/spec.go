package tools

// JSON schema parameter types
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Parameter is a single named tool argument.
type Parameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
}

// ToolSpec is the catalog entry the model sees for one tool.
type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// SpecOf builds the catalog entry for a tool.
func SpecOf(t Tool) ToolSpec {
	params := t.Parameters()
	copied := make([]Parameter, len(params))
	copy(copied, params)
	return ToolSpec{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  copied,
	}
}

// JSONSchema renders the parameters as an OpenAI function-calling schema:
// {"type":"object","properties":{...},"required":[...]}
func (s ToolSpec) JSONSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(s.Parameters))
	required := make([]string, 0)

	for _, p := range s.Parameters {
		prop := map[string]interface{}{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// RequiredNames lists the mandatory parameter names in declaration order.
func (s ToolSpec) RequiredNames() []string {
	var names []string
	for _, p := range s.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}
