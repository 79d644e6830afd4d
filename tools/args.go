package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseArguments decodes the raw argument text produced by the model.
// Anything that is not a JSON object yields an empty map.
func ParseArguments(raw string) map[string]interface{} {
	args := make(map[string]interface{})
	if strings.TrimSpace(raw) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return make(map[string]interface{})
	}
	return args
}

// DropNil returns a copy of args without explicitly null values.
func DropNil(args map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(args))
	for k, v := range args {
		if v != nil {
			clean[k] = v
		}
	}
	return clean
}

// DecodeArgs maps the generic argument map onto a typed input struct.
func DecodeArgs(args map[string]interface{}, input interface{}) error {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(b, input); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}

// String returns args[key] as a string. Non-string scalars are formatted.
func String(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return fmt.Sprint(val), true
	}
}

// Int returns args[key] as an int, falling back to def when absent or
// not numeric. JSON numbers arrive as float64; numeric strings are accepted.
func Int(args map[string]interface{}, key string, def int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return def
}
