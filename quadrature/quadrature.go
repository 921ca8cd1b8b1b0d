// Package quadrature approximates definite integrals with the composite
// Trapezoidal, Midpoint and Simpson's rules and measures each against an
// exact reference value.
//
// The package is pure: no I/O, no logging and no shared state. Samples are
// taken once per grid and every rule is a weighted dot product over them.
package quadrature

import (
	"gonum.org/v1/gonum/floats"
)

// Integrand is a real function that can be evaluated at one point or
// element-wise over a slice. *symbolic.Evaluator satisfies it.
type Integrand interface {
	At(x float64) float64
	Map(xs []float64) []float64
}

// Func adapts an ordinary function to Integrand.
type Func func(x float64) float64

func (f Func) At(x float64) float64 { return f(x) }

func (f Func) Map(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// ============================================================
// Rules
// ============================================================

type Rule int

const (
	RuleTrapezoidal Rule = iota
	RuleMidpoint
	RuleSimpson
)

func (r Rule) String() string {
	switch r {
	case RuleTrapezoidal:
		return "trapezoidal"
	case RuleMidpoint:
		return "midpoint"
	case RuleSimpson:
		return "simpson"
	}
	return "unknown"
}

// weights returns the per-sample weights and the scale factor of the rule
// for n subintervals of width step.
func (r Rule) weights(n int, step float64) ([]float64, float64) {
	switch r {
	case RuleMidpoint:
		w := make([]float64, n)
		for i := range w {
			w[i] = 1
		}
		return w, step
	case RuleSimpson:
		w := make([]float64, n+1)
		for i := 1; i < n; i++ {
			if i%2 == 1 {
				w[i] = 4
			} else {
				w[i] = 2
			}
		}
		w[0], w[n] = 1, 1
		return w, step / 3
	default:
		w := make([]float64, n+1)
		for i := 1; i < n; i++ {
			w[i] = 2
		}
		w[0], w[n] = 1, 1
		return w, step / 2
	}
}

func (r Rule) apply(g *Grid, ys []float64) float64 {
	w, scale := r.weights(g.N, g.Step)
	return scale * floats.Dot(w, ys)
}

// CheckLimit fails with an *InvalidSubintervalCountError when n exceeds
// limit. A limit of zero or less disables the check.
func CheckLimit(n, limit int) error {
	if limit > 0 && n > limit {
		return &InvalidSubintervalCountError{N: n, Rule: RuleSimpson, Max: limit}
	}
	return nil
}

func checkCount(n int, rule Rule) error {
	if n < 1 || (rule == RuleSimpson && n%2 != 0) {
		return &InvalidSubintervalCountError{N: n, Rule: rule}
	}
	return nil
}

// ============================================================
// Approximation
// ============================================================

// Approximate computes T_n, M_n and S_n for f over b with n subintervals
// and, when exact is known, the signed errors exact - approximation.
//
// n must be even and positive. The first sample where f is NaN or ±Inf
// aborts the run with a *DomainError; grid points are checked before
// midpoints.
func Approximate(f Integrand, b Bounds, n int, exact Exact) (Result, error) {
	if err := checkCount(n, RuleSimpson); err != nil {
		return Result{}, err
	}
	g, err := NewGrid(b, n)
	if err != nil {
		return Result{}, err
	}
	ys, err := sample(f, g.Points, RuleTrapezoidal)
	if err != nil {
		return Result{}, err
	}
	mids, err := sample(f, g.Midpoints, RuleMidpoint)
	if err != nil {
		return Result{}, err
	}

	r := Result{
		N:           n,
		Bounds:      b,
		Trapezoidal: RuleTrapezoidal.apply(g, ys),
		Midpoint:    RuleMidpoint.apply(g, mids),
		Simpson:     RuleSimpson.apply(g, ys),
		Exact:       exact,
	}
	if exact.Known {
		r.ErrTrapezoidal = exact.Value - r.Trapezoidal
		r.ErrMidpoint = exact.Value - r.Midpoint
		r.ErrSimpson = exact.Value - r.Simpson
	}
	return r, nil
}

// Trapezoidal applies the composite trapezoidal rule alone. Any n >= 1 is
// accepted.
func Trapezoidal(f Integrand, b Bounds, n int) (float64, error) {
	return single(f, b, n, RuleTrapezoidal)
}

// Midpoint applies the composite midpoint rule alone. Any n >= 1 is
// accepted.
func Midpoint(f Integrand, b Bounds, n int) (float64, error) {
	return single(f, b, n, RuleMidpoint)
}

// Simpson applies the composite Simpson's rule alone. n must be even.
func Simpson(f Integrand, b Bounds, n int) (float64, error) {
	return single(f, b, n, RuleSimpson)
}

func single(f Integrand, b Bounds, n int, rule Rule) (float64, error) {
	if err := checkCount(n, rule); err != nil {
		return 0, err
	}
	g, err := NewGrid(b, n)
	if err != nil {
		return 0, err
	}
	xs := g.Points
	if rule == RuleMidpoint {
		xs = g.Midpoints
	}
	ys, err := sample(f, xs, rule)
	if err != nil {
		return 0, err
	}
	return rule.apply(g, ys), nil
}
