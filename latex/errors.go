package latex

import "fmt"

// ExtractionError reports input that is not a definite integral of the
// form \int_{a}^{b} <function> dx.
type ExtractionError struct {
	Input string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf(`invalid LaTeX integral format %q: use \int_{a}^{b} <function> dx`, e.Input)
}

// BuildError reports text that cannot be turned into an expression.
type BuildError struct {
	Input string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Input, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
