package substitute

import (
	"fmt"
	"regexp"
)

// Marker characters for the two evaluated span kinds.
const (
	MarkerExpression = '#'
	MarkerGenerator  = '!'
)

// Evaluator turns the body of a marker span into its replacement text.
type Evaluator func(body string) (string, error)

// MarkerPattern compiles the pattern matching <marker>{<body>}, where body is
// a non-empty run of characters other than '}'. The body is capture group 1.
func MarkerPattern(marker rune) (*regexp.Regexp, error) {
	if marker == '{' || marker == '}' || marker == 0 {
		return nil, fmt.Errorf("%w: marker %q", ErrMalformedMarkerPattern, marker)
	}
	re, err := regexp.Compile(regexp.QuoteMeta(string(marker)) + `\{([^}]+)\}`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMarkerPattern, err)
	}
	return re, nil
}

// Rewrite replaces every marker span in text with the result of eval. See
// [Scanner.Rewrite].
func Rewrite(marker rune, text string, eval Evaluator) (string, error) {
	s, err := NewScanner(marker, 0)
	if err != nil {
		return "", err
	}
	return s.Rewrite(text, eval)
}

// Scanner rewrites the spans of a single marker character.
type Scanner struct {
	marker      rune
	pattern     *regexp.Regexp
	maxRewrites int
}

// NewScanner returns a scanner for marker. A positive maxRewrites bounds the
// number of spans a single Rewrite call may replace; zero means no bound.
func NewScanner(marker rune, maxRewrites int) (*Scanner, error) {
	re, err := MarkerPattern(marker)
	if err != nil {
		return nil, err
	}
	return &Scanner{marker: marker, pattern: re, maxRewrites: maxRewrites}, nil
}

// Marker returns the scanner's marker character.
func (s *Scanner) Marker() rune { return s.marker }

// Rewrite repeatedly finds the leftmost span in text, evaluates its body and
// splices the result in place of the whole span, restarting the search from
// the beginning of the rewritten text. It stops when no span remains.
//
// Because the search restarts, output that itself contains a span of the
// same marker is evaluated again.
//
// The first evaluator error aborts the rewrite; no partial result is
// returned.
func (s *Scanner) Rewrite(text string, eval Evaluator) (string, error) {
	for n := 0; ; n++ {
		loc := s.pattern.FindStringSubmatchIndex(text)
		if loc == nil {
			return text, nil
		}
		if s.maxRewrites > 0 && n >= s.maxRewrites {
			return "", fmt.Errorf("%w: %d rewrites of %c{...}", ErrRewriteLimit, s.maxRewrites, s.marker)
		}

		value, err := eval(text[loc[2]:loc[3]])
		if err != nil {
			return "", err
		}
		text = text[:loc[0]] + value + text[loc[1]:]
	}
}
