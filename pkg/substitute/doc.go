// Package substitute resolves placeholder markers in test step parameters.
// It turns text like "Open ${homepage}/users/#{${id} + 1}?ts=!{time}" into a
// fully resolved string.
//
// # Markers
//
// Three kinds of marker are recognised:
//   - ${name} - replaced by a variable from the environment layer or the
//     data-store layer
//   - #{expr} - evaluated as an arithmetic or boolean expression, after any
//     ${name} references inside it have been resolved
//   - !{directive} - replaced by a generated value
//
// # Generators
//
//   - !{uuid} - random UUID v4 in canonical 36-character form
//   - !{time} - current UTC time in RFC3339 format
//   - !{time:%Y-%m-%d} - current UTC time formatted with a strftime layout
//
// Directive keywords are case-insensitive. An unknown directive fails the
// whole substitution with [ErrUnsupportedDirective].
//
// # Pipeline
//
// [Engine.Substitute] runs four passes in a fixed order, each consuming the
// output of the previous one:
//
//  1. ${name} against the environment layer
//  2. ${name} against the data-store layer
//  3. #{...} spans
//  4. !{...} spans
//
// Placeholders without a matching variable are left in the output untouched.
// Expression spans that fail to evaluate are, by default, replaced with their
// variable-resolved body; see [Policy] to make them fail instead.
//
// Marker spans never nest: the first closing brace ends a span. After every
// replacement the scan restarts at the beginning of the rewritten text, so a
// generated value that itself contains a marker of the same kind is evaluated
// again.
//
// An [Engine] holds no mutable state and is safe for concurrent use.
package substitute
