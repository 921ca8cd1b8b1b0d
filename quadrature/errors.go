package quadrature

import "fmt"

// InvalidSubintervalCountError reports a subinterval count the rule cannot
// use: zero, negative, odd for Simpson's rule, or above a caller's limit.
// Max is zero unless a limit was exceeded.
type InvalidSubintervalCountError struct {
	N    int
	Rule Rule
	Max  int
}

func (e *InvalidSubintervalCountError) Error() string {
	if e.Max > 0 && e.N > e.Max {
		return fmt.Sprintf("n must be at most %d, got %d", e.Max, e.N)
	}
	if e.N < 1 {
		return fmt.Sprintf("n must be a positive integer, got %d", e.N)
	}
	return fmt.Sprintf("n must be an even number for Simpson's Rule, got %d", e.N)
}

// DomainError reports a sample point where the integrand is not finite.
// Rule names the first rule that needs the point.
type DomainError struct {
	X     float64
	Value float64
	Rule  Rule
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("function is undefined at x = %g (got %g, needed by the %s rule)", e.X, e.Value, e.Rule)
}

// BoundsError reports a NaN or infinite integration limit.
type BoundsError struct {
	Bounds Bounds
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("integration bounds must be finite, got [%g, %g]", e.Bounds.Lower, e.Bounds.Upper)
}
