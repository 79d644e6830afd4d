package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/tools"
)

// DefaultCalculatorTimeout bounds a single evaluation
const DefaultCalculatorTimeout = 500 * time.Millisecond

const maxExpressionLength = 500

// mathPrelude binds the whitelisted names inside the VM.
// log(x, base) and round(x, digits) follow the familiar calculator forms.
const mathPrelude = `
var sqrt = Math.sqrt, sin = Math.sin, cos = Math.cos, tan = Math.tan;
var log10 = Math.log10, exp = Math.exp, abs = Math.abs, pow = Math.pow;
var pi = Math.PI, e = Math.E;
var log = function(x, base) {
	if (base === undefined) { return Math.log(x); }
	return Math.log(x) / Math.log(base);
};
var round = function(x, digits) {
	if (digits === undefined) { return Math.round(x); }
	var m = Math.pow(10, digits);
	return Math.round(x * m) / m;
};
`

var (
	allowedIdentifiers = map[string]bool{
		"sqrt": true, "sin": true, "cos": true, "tan": true,
		"log": true, "log10": true, "exp": true,
		"pi": true, "e": true,
		"abs": true, "round": true, "pow": true,
	}

	numberLiteral  = regexp.MustCompile(`(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	identifier     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	forbiddenChars = regexp.MustCompile(`[^0-9A-Za-z_\s+\-*/%().,]`)
)

// CalculatorInput defines the input for the calculator tool
type CalculatorInput struct {
	Expression string `json:"expression"`
}

// CalculatorTool evaluates arithmetic expressions in an isolated goja VM.
// Only numeric literals, operators and a fixed set of math names are accepted.
type CalculatorTool struct {
	Timeout time.Duration
}

// NewCalculatorTool creates a CalculatorTool and registers it when a registry is given
func NewCalculatorTool(timeout time.Duration, registry *tools.Registry) *CalculatorTool {
	if timeout <= 0 {
		timeout = DefaultCalculatorTimeout
	}
	t := &CalculatorTool{Timeout: timeout}
	if registry != nil {
		registry.Register(t)
	}
	return t
}

func (t *CalculatorTool) Name() string {
	return "calculator"
}

func (t *CalculatorTool) Description() string {
	return "Evaluate mathematical expressions and perform calculations. Supports basic arithmetic, exponents, and common math functions (sqrt, sin, cos, log, etc.)."
}

func (t *CalculatorTool) Parameters() []tools.Parameter {
	return []tools.Parameter{
		{
			Name:        "expression",
			Type:        tools.TypeString,
			Description: "Mathematical expression to evaluate (e.g., '2 + 2', 'sqrt(16)', '10 ** 2', 'sin(3.14159/2)')",
			Required:    true,
		},
	}
}

func (t *CalculatorTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	expression, _ := tools.String(args, "expression")
	result, err := t.Evaluate(ctx, expression)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🧮 Calculation Result:\n%s = **%s**", expression, result), nil
}

func (t *CalculatorTool) FormatError(args map[string]interface{}, err error) string {
	return fmt.Sprintf("❌ Calculation error: %v\nMake sure your expression is valid (e.g., '2 + 2', 'sqrt(16)')", err)
}

// Evaluate validates and evaluates an expression, returning the formatted number.
func (t *CalculatorTool) Evaluate(ctx context.Context, expression string) (string, error) {
	if err := validateExpression(expression); err != nil {
		return "", err
	}
	log.Debugf(ctx, "CalculatorTool evaluating: %s", expression)

	vm := goja.New()
	if _, err := vm.RunString(mathPrelude); err != nil {
		return "", fmt.Errorf("failed to prepare calculator: %w", err)
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultCalculatorTimeout
	}
	timer := time.AfterFunc(timeout, func() {
		vm.Interrupt("evaluation timed out")
	})
	defer timer.Stop()

	val, err := vm.RunString("(" + expression + ")")
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return "", fmt.Errorf("evaluation timed out after %s", timeout)
		}
		return "", fmt.Errorf("invalid expression: %w", err)
	}

	return formatNumber(val.Export())
}

func validateExpression(expression string) error {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return errors.New("expression is empty")
	}
	if len(trimmed) > maxExpressionLength {
		return fmt.Errorf("expression longer than %d characters", maxExpressionLength)
	}
	if strings.Contains(trimmed, "//") || strings.Contains(trimmed, "/*") {
		return errors.New("comments and floor division are not supported")
	}
	if bad := forbiddenChars.FindString(trimmed); bad != "" {
		return fmt.Errorf("unsupported character %q", bad)
	}

	stripped := numberLiteral.ReplaceAllString(trimmed, " ")
	for _, name := range identifier.FindAllString(stripped, -1) {
		if !allowedIdentifiers[name] {
			return fmt.Errorf("name '%s' is not defined", name)
		}
	}
	return nil
}

func formatNumber(v interface{}) (string, error) {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", errors.New("result is not a finite number")
		}
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return strconv.FormatFloat(n, 'f', -1, 64), nil
		}
		return strconv.FormatFloat(n, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("result is not a number (%T)", v)
	}
}
