// Package latex reads definite integrals written in LaTeX notation.
//
// Extract splits "\int_{a}^{b} f(x) dx" into its four textual fields and
// Parse turns a function body into a symbolic.Expr using a participle
// grammar for the subset of LaTeX math that appears in calculus exercises.
package latex

import (
	"regexp"
	"strings"
)

// Integral holds the raw text fields of a definite integral.
type Integral struct {
	Lower string
	Upper string
	Body  string
	Var   string
}

// A limit is either a braced group, balanced up to two levels of nesting,
// or a single LaTeX token: a number, a command such as \pi, or one letter.
const limit = `(?:\{((?:[^{}]|\{(?:[^{}]|\{[^{}]*\})*\})+)\}|(-?[0-9]*\.?[0-9]+|\\[a-zA-Z]+|[a-zA-Z]))`

var integralPattern = regexp.MustCompile(
	`\\\\?int\s*_\s*` + limit + `\s*\^\s*` + limit +
		`\s*(.+?)\s*(?:\\[,;:!]\s*)*d([a-zA-Z])\s*[.,]?\s*$`,
)

// Extract matches s against the definite-integral shape. Doubled
// backslashes, as produced by escaped input, are accepted before \int.
func Extract(s string) (Integral, error) {
	m := integralPattern.FindStringSubmatch(s)
	if m == nil {
		return Integral{}, &ExtractionError{Input: s}
	}
	return Integral{
		Lower: firstNonEmpty(m[1], m[2]),
		Upper: firstNonEmpty(m[3], m[4]),
		Body:  strings.TrimSpace(m[5]),
		Var:   m[6],
	}, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
