package symbolic

import (
	"errors"
	"fmt"
)

// ErrNoClosedForm is returned when no integration rule matches the integrand.
var ErrNoClosedForm = errors.New("no closed-form antiderivative")

// CompileError reports an expression that has no float64 implementation.
type CompileError struct {
	Expr   string // offending sub-expression
	Reason string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("cannot compile %s: %s", e.Expr, e.Reason)
}

// EvaluationError reports an antiderivative that is not finite at a bound
// or not continuous at an interior point.
type EvaluationError struct {
	Expr string
	X    float64
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s is undefined at %g", e.Expr, e.X)
}
