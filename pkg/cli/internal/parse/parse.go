// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAssignment is returned for a value that is not key=value.
var ErrInvalidAssignment = errors.New("expected key=value")

// KeyValue parses a "key=value" string. Only the first '=' separates, so
// values may contain '='.
func KeyValue(s string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", false
	}
	return strings.TrimSpace(key), value, true
}

// Assignments parses repeated key=value flags in order. Later assignments
// of the same key win.
func Assignments(values []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(values))
	for _, v := range values {
		key, value, ok := KeyValue(v)
		if !ok {
			return nil, fmt.Errorf("%w, got %q", ErrInvalidAssignment, v)
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs, nil
}
