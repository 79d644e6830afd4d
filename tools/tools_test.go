package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArguments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]interface{}
	}{
		{"object", `{"city":"Paris"}`, map[string]interface{}{"city": "Paris"}},
		{"empty string", "", map[string]interface{}{}},
		{"whitespace", "   ", map[string]interface{}{}},
		{"malformed", `{"city":`, map[string]interface{}{}},
		{"array", `[1,2]`, map[string]interface{}{}},
		{"null", `null`, map[string]interface{}{}},
		{"number", `42`, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseArguments(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDropNil(t *testing.T) {
	in := map[string]interface{}{"a": 1.0, "b": nil, "c": ""}
	out := DropNil(in)
	assert.Equal(t, map[string]interface{}{"a": 1.0, "c": ""}, out)
	assert.Len(t, in, 3)
	assert.Empty(t, DropNil(nil))
}

func TestInt(t *testing.T) {
	args := map[string]interface{}{
		"float":  5.0,
		"int":    7,
		"string": " 9 ",
		"number": json.Number("11"),
		"bad":    "many",
		"nil":    nil,
	}
	assert.Equal(t, 5, Int(args, "float", 3))
	assert.Equal(t, 7, Int(args, "int", 3))
	assert.Equal(t, 9, Int(args, "string", 3))
	assert.Equal(t, 11, Int(args, "number", 3))
	assert.Equal(t, 3, Int(args, "bad", 3))
	assert.Equal(t, 3, Int(args, "nil", 3))
	assert.Equal(t, 3, Int(args, "missing", 3))
}

func TestString(t *testing.T) {
	args := map[string]interface{}{"s": "x", "n": 2.5, "b": true}

	s, ok := String(args, "s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	s, ok = String(args, "n")
	assert.True(t, ok)
	assert.Equal(t, "2.5", s)

	s, ok = String(args, "b")
	assert.True(t, ok)
	assert.Equal(t, "true", s)

	_, ok = String(args, "missing")
	assert.False(t, ok)
}

func TestDecodeArgs(t *testing.T) {
	var input struct {
		Title string `json:"title"`
		Limit int    `json:"limit"`
	}
	err := DecodeArgs(map[string]interface{}{"title": "groceries", "limit": 4.0}, &input)
	require.NoError(t, err)
	assert.Equal(t, "groceries", input.Title)
	assert.Equal(t, 4, input.Limit)

	err = DecodeArgs(map[string]interface{}{"limit": "lots"}, &input)
	assert.Error(t, err)
}

func TestToolSpec_JSONSchema(t *testing.T) {
	spec := ToolSpec{
		Name: "web_search",
		Parameters: []Parameter{
			{Name: "query", Type: TypeString, Description: "The search query", Required: true},
			{Name: "num_results", Type: TypeInteger, Description: "Number of results", Default: 3},
		},
	}

	schema := spec.JSONSchema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"query"}, schema["required"])

	props := schema["properties"].(map[string]interface{})
	require.Len(t, props, 2)
	num := props["num_results"].(map[string]interface{})
	assert.Equal(t, "integer", num["type"])
	assert.Equal(t, 3, num["default"])
	_, hasDefault := props["query"].(map[string]interface{})["default"]
	assert.False(t, hasDefault)

	assert.Equal(t, []string{"query"}, spec.RequiredNames())
}

func TestToolSpec_JSONSchemaNoParameters(t *testing.T) {
	schema := ToolSpec{Name: "get_current_datetime"}.JSONSchema()
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
	_, hasRequired := schema["required"]
	assert.False(t, hasRequired)
}
