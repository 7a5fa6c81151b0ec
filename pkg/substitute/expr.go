package substitute

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Policy selects what happens when a #{...} body fails to evaluate.
type Policy int

const (
	// PolicyPassthrough replaces the span with its variable-resolved body.
	PolicyPassthrough Policy = iota
	// PolicyFail aborts the substitution with an *ExpressionError.
	PolicyFail
)

// DefaultPolicy is used when no policy option is given.
const DefaultPolicy = PolicyPassthrough

func (p Policy) String() string {
	switch p {
	case PolicyPassthrough:
		return "passthrough"
	case PolicyFail:
		return "fail"
	default:
		return "policy(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePolicy parses "passthrough" or "fail", ignoring case and surrounding
// whitespace.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passthrough":
		return PolicyPassthrough, nil
	case "fail":
		return PolicyFail, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: passthrough, fail)", ErrUnknownPolicy, s)
	}
}

// numericBuiltins stay enabled; every other expr-lang builtin is disabled so
// expressions remain plain arithmetic and boolean logic.
var numericBuiltins = []string{"abs", "ceil", "floor", "round", "min", "max"}

var (
	errNoValue         = errors.New("expression produced no value")
	errNotFinite       = errors.New("expression result is not a finite number")
	errIntegerOverflow = errors.New("integer overflow")
)

// checkedIntOps replace expr-lang's wrapping int arithmetic.
var checkedIntOps = []struct {
	operator string
	name     string
	fn       func(a, b int) (int, bool)
}{
	{"+", "checkedAdd", func(a, b int) (int, bool) {
		c := a + b
		return c, (b > 0 && c < a) || (b < 0 && c > a)
	}},
	{"-", "checkedSub", func(a, b int) (int, bool) {
		c := a - b
		return c, (b > 0 && c > a) || (b < 0 && c < a)
	}},
	{"*", "checkedMul", func(a, b int) (int, bool) {
		if a == 0 || b == 0 {
			return 0, false
		}
		c := a * b
		return c, c/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt)
	}},
}

// EvaluateExpression is the #{...} evaluator. It resolves ${name} references
// in body against env and then data, evaluates the result and renders it as
// text. On failure the engine's policy decides between returning the
// resolved body and returning an *ExpressionError.
func (e *Engine) EvaluateExpression(body string, env, data Vars) (string, error) {
	resolved := Resolve(Resolve(body, env), data)

	value, err := evalArithmetic(resolved)
	if err == nil {
		return value, nil
	}

	exprErr := &ExpressionError{Expression: resolved, Err: err}
	if e.policy == PolicyFail {
		return "", exprErr
	}

	e.logger.Debug("expression passed through unevaluated",
		slog.String("expression", resolved),
		slog.Any("error", err))

	return resolved, nil
}

// evalArithmetic compiles and runs source as an expr-lang program with an
// empty, strict environment.
func evalArithmetic(source string) (string, error) {
	opts := []expr.Option{
		expr.Env(map[string]any{}),
		expr.DisableAllBuiltins(),
	}
	for _, name := range numericBuiltins {
		opts = append(opts, expr.EnableBuiltin(name))
	}
	for _, op := range checkedIntOps {
		fn := op.fn
		opts = append(opts,
			expr.Operator(op.operator, op.name),
			expr.Function(op.name, func(params ...any) (any, error) {
				c, overflow := fn(params[0].(int), params[1].(int))
				if overflow {
					return nil, errIntegerOverflow
				}
				return c, nil
			}, new(func(int, int) int)),
		)
	}

	program, err := expr.Compile(source, opts...)
	if err != nil {
		return "", err
	}

	out, err := expr.Run(program, map[string]any{})
	if err != nil {
		return "", err
	}

	return formatResult(out)
}

// formatResult renders an expression result as text.
func formatResult(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", errNoValue
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", errNotFinite
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported result type %T", v)
	}
}
