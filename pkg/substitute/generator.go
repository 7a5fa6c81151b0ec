package substitute

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"golang.org/x/text/cases"
)

// Directive keywords.
const (
	DirectiveUUID = "uuid"
	DirectiveTime = "time"
)

// timeFormatOptions extend the standard strftime set with %L (milliseconds)
// and %s (unix seconds).
var timeFormatOptions = []strftime.Option{
	strftime.WithMilliseconds('L'),
	strftime.WithUnixSeconds('s'),
}

// Generate is the !{...} evaluator. The keyword before the first ':' is
// matched case-insensitively; the time layout after it is used as written.
func (e *Engine) Generate(directive string) (string, error) {
	keyword, format, hasFormat := strings.Cut(directive, ":")

	switch cases.Fold().String(keyword) {
	case DirectiveUUID:
		if hasFormat {
			break
		}
		id, err := e.newUUID()
		if err != nil {
			return "", &DirectiveError{Directive: directive, Err: fmt.Errorf("generate uuid: %w", err)}
		}
		return id.String(), nil

	case DirectiveTime:
		now := e.clock().UTC()
		if !hasFormat {
			return now.Format(time.RFC3339), nil
		}
		s, err := strftime.Format(format, now, timeFormatOptions...)
		if err != nil {
			return "", &DirectiveError{
				Directive: directive,
				Err:       fmt.Errorf("%w: %v", ErrInvalidTimeFormat, err),
			}
		}
		return s, nil
	}

	return "", &DirectiveError{Directive: directive, Err: ErrUnsupportedDirective}
}
