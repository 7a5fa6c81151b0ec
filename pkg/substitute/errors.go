package substitute

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrMalformedMarkerPattern is returned when the scanner cannot build the
	// pattern for a marker character.
	ErrMalformedMarkerPattern = errors.New("malformed marker pattern")

	// ErrUnsupportedDirective is returned for a !{...} body that is not uuid,
	// time or time:<format>.
	ErrUnsupportedDirective = errors.New("unsupported generator directive")

	// ErrInvalidTimeFormat is returned when a time:<format> layout cannot be
	// compiled.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrExpressionEvaluation is returned for a #{...} body that does not
	// evaluate, when the engine is configured with PolicyFail.
	ErrExpressionEvaluation = errors.New("expression evaluation failed")

	// ErrRewriteLimit is returned when a marker pass exceeds the configured
	// number of rewrites.
	ErrRewriteLimit = errors.New("marker rewrite limit exceeded")

	// ErrUnknownPolicy is returned by ParsePolicy for unrecognised input.
	ErrUnknownPolicy = errors.New("unknown expression error policy")
)

// DirectiveError reports a generator directive that could not be evaluated.
type DirectiveError struct {
	// Directive is the offending !{...} body, as written.
	Directive string
	// Err is ErrUnsupportedDirective or ErrInvalidTimeFormat, possibly
	// wrapping a lower level cause.
	Err error
}

func (e *DirectiveError) Error() string {
	if errors.Is(e.Err, ErrUnsupportedDirective) {
		return fmt.Sprintf("%s %q", ErrUnsupportedDirective, e.Directive)
	}
	return fmt.Sprintf("directive %q: %v", e.Directive, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }

// ExpressionError reports a #{...} body that failed to compile or run.
type ExpressionError struct {
	// Expression is the body after variable resolution.
	Expression string
	// Err is the underlying compile, runtime or result-type error.
	Err error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("%s: %q: %v", ErrExpressionEvaluation, e.Expression, e.Err)
}

// Unwrap returns both the sentinel and the cause so errors.Is matches
// ErrExpressionEvaluation and errors.As can reach the expr-lang error.
func (e *ExpressionError) Unwrap() []error {
	return []error{ErrExpressionEvaluation, e.Err}
}
