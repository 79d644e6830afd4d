package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumittt2004/agentforge/tools"
)

func TestCalculatorTool_Evaluate(t *testing.T) {
	calc := NewCalculatorTool(time.Second, nil)

	tests := []struct {
		name       string
		expression string
		expected   string
	}{
		{"Addition", "2 + 2", "4"},
		{"Precedence", "2 + 3 * 4", "14"},
		{"Parentheses", "(2 + 3) * 4", "20"},
		{"Exponent", "10 ** 2", "100"},
		{"Sqrt", "sqrt(16)", "4"},
		{"Float", "7 / 2", "3.5"},
		{"Modulo", "10 % 3", "1"},
		{"Pi", "round(pi, 2)", "3.14"},
		{"Sin", "round(sin(pi / 2))", "1"},
		{"Log base", "round(log(8, 2), 6)", "3"},
		{"Log10", "round(log10(1000), 6)", "3"},
		{"Pow", "pow(2, 10)", "1024"},
		{"Abs", "abs(-5.5)", "5.5"},
		{"Scientific", "1e3 + 1", "1001"},
		{"Large", "10 ** 21", "1e+21"},
		{"Negative", "-3 - 4", "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Evaluate(context.Background(), tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}

func TestCalculatorTool_Rejects(t *testing.T) {
	calc := NewCalculatorTool(time.Second, nil)

	tests := []struct {
		name       string
		expression string
		errPart    string
	}{
		{"Empty", "   ", "empty"},
		{"Unknown name", "foo(2)", "name 'foo' is not defined"},
		{"Global object", "Math.sqrt(4)", "name 'Math' is not defined"},
		{"Constructor escape", "abs.constructor('return 1')()", "unsupported character"},
		{"Loop keyword", "while(1) 1", "name 'while' is not defined"},
		{"Comment", "1 /* x */", "comments"},
		{"Floor division", "7 // 2", "floor division"},
		{"Brackets", "[1,2]", "unsupported character"},
		{"Assignment", "sqrt = 1", "unsupported character"},
		{"Syntax", "2 +", "invalid expression"},
		{"Division by zero", "1 / 0", "not a finite number"},
		{"Domain", "sqrt(-1)", "not a finite number"},
		{"Function value", "sqrt", "not a number"},
		{"Too long", strings.Repeat("1+", 300) + "1", "longer than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Evaluate(context.Background(), tt.expression)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestCalculatorTool_ThroughRegistry(t *testing.T) {
	registry := tools.NewRegistry()
	NewCalculatorTool(0, registry)

	res := registry.Execute(context.Background(), "calculator", map[string]interface{}{"expression": "sqrt(16)"})
	assert.Equal(t, "🧮 Calculation Result:\nsqrt(16) = **4**", res)

	res = registry.Execute(context.Background(), "calculator", map[string]interface{}{"expression": "2 +"})
	assert.True(t, strings.HasPrefix(res, "❌ Calculation error:"), res)
	assert.Contains(t, res, "Make sure your expression is valid")

	res = registry.Execute(context.Background(), "calculator", map[string]interface{}{})
	assert.True(t, strings.HasPrefix(res, "❌ Calculation error:"), res)
	assert.Contains(t, res, "expression")
}

func TestCalculatorTool_DefaultTimeout(t *testing.T) {
	calc := NewCalculatorTool(-1, nil)
	assert.Equal(t, DefaultCalculatorTimeout, calc.Timeout)
	assert.Equal(t, "calculator", calc.Name())
	assert.Len(t, calc.Parameters(), 1)
}
