// Package goquad approximates definite integrals written in LaTeX.
//
// A request such as `\int_{1}^{4} \frac{6}{\sqrt{x}} dx` with n = 4 is
// extracted, parsed into a symbolic expression, compiled to a float64
// evaluator and integrated with the Trapezoidal, Midpoint and Simpson's
// rules. The exact value from the symbolic integrator gives the signed
// error of each rule.
//
//	out := goquad.Evaluate(ctx, `\int_{0}^{1} x^2 dx`, 10)
//	// map[E_M:0.000833 E_S:0 E_T:-0.001667 M_n:0.3325 S_n:0.333333 T_n:0.335]
package goquad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/njchilds90/goquad/internal/logging"
	"github.com/njchilds90/goquad/latex"
	"github.com/njchilds90/goquad/quadrature"
	"github.com/njchilds90/goquad/symbolic"
)

// ErrExactUnavailable is returned when the exact integral has no closed
// form or cannot be evaluated at a limit. It wraps the underlying cause.
var ErrExactUnavailable = errors.New("could not compute the exact integral")

const (
	DefaultPrecision       = 6
	DefaultSubintervals    = 4
	DefaultMaxSubintervals = 1_000_000
)

// ============================================================
// Options
// ============================================================

type options struct {
	logger          *slog.Logger
	precision       int
	requireExact    bool
	maxSubintervals int
}

type Option func(*options)

// WithLogger routes pipeline diagnostics to l. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPrecision sets the number of decimal places in reported values.
func WithPrecision(p int) Option {
	return func(o *options) { o.precision = p }
}

// WithMaxSubintervals caps n. Requests above the cap fail with a
// *quadrature.InvalidSubintervalCountError before anything is allocated.
// Zero or less removes the cap.
func WithMaxSubintervals(limit int) Option {
	return func(o *options) { o.maxSubintervals = limit }
}

// WithRequireExact controls what happens when no exact value is available.
// When true (the default) the request fails with ErrExactUnavailable. When
// false the approximations are still reported, without error terms.
func WithRequireExact(v bool) Option {
	return func(o *options) { o.requireExact = v }
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:          logging.NewNop(),
		precision:       DefaultPrecision,
		requireExact:    true,
		maxSubintervals: DefaultMaxSubintervals,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ============================================================
// Pipeline
// ============================================================

// Report is the outcome of one approximation request.
type Report struct {
	Integral  latex.Integral
	Expr      symbolic.Expr
	Bounds    quadrature.Bounds
	Result    quadrature.Result
	Precision int
}

// Map returns the rounded output keys. See quadrature.Result.Map.
func (r *Report) Map() map[string]float64 { return r.Result.Map(r.Precision) }

// Approximate runs the full pipeline for one integral and subinterval count.
func Approximate(ctx context.Context, integral string, n int, opts ...Option) (*Report, error) {
	o := newOptions(opts)
	if err := quadrature.CheckLimit(n, o.maxSubintervals); err != nil {
		return nil, err
	}
	in, expr, bounds, err := parse(ctx, integral, o)
	if err != nil {
		return nil, err
	}

	f, err := symbolic.Compile(expr, in.Var)
	if err != nil {
		return nil, err
	}

	exact := quadrature.Unknown()
	v, err := symbolic.DefiniteIntegral(expr, in.Var, bounds.Lower, bounds.Upper)
	switch {
	case err == nil:
		exact = quadrature.Known(v)
	case o.requireExact:
		return nil, fmt.Errorf("%w: %w", ErrExactUnavailable, err)
	default:
		o.logger.Warn("exact value unavailable, reporting approximations only", "error", err)
	}

	result, err := quadrature.Approximate(f, bounds, n, exact)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("approximated integral",
		"n", n,
		"trapezoidal", result.Trapezoidal,
		"midpoint", result.Midpoint,
		"simpson", result.Simpson,
		"exact_known", exact.Known,
	)

	return &Report{
		Integral:  in,
		Expr:      expr,
		Bounds:    bounds,
		Result:    result,
		Precision: o.precision,
	}, nil
}

// parse extracts the integral and parses its limits and integrand.
func parse(ctx context.Context, integral string, o *options) (latex.Integral, symbolic.Expr, quadrature.Bounds, error) {
	var bounds quadrature.Bounds
	if err := ctx.Err(); err != nil {
		return latex.Integral{}, nil, bounds, err
	}

	in, err := latex.Extract(integral)
	if err != nil {
		return in, nil, bounds, err
	}
	o.logger.Debug("extracted integral",
		"lower", in.Lower,
		"upper", in.Upper,
		"function", in.Body,
		"variable", in.Var,
	)

	if bounds.Lower, err = latex.ParseLimit(in.Lower); err != nil {
		return in, nil, bounds, fmt.Errorf("failed to parse the LaTeX string: lower limit: %w", err)
	}
	if bounds.Upper, err = latex.ParseLimit(in.Upper); err != nil {
		return in, nil, bounds, fmt.Errorf("failed to parse the LaTeX string: upper limit: %w", err)
	}
	expr, err := latex.Parse(in.Body)
	if err != nil {
		return in, nil, bounds, fmt.Errorf("failed to parse the LaTeX string: %w", err)
	}
	o.logger.Debug("parsed function", "expr", expr.String(), "lower", bounds.Lower, "upper", bounds.Upper)
	return in, expr, bounds, nil
}

// ErrorBounds returns the worst-case error of each rule for n subintervals,
// using the maxima of |f''| and |f''''| sampled over the interval.
func ErrorBounds(ctx context.Context, integral string, n int, opts ...Option) (quadrature.ErrorBounds, error) {
	o := newOptions(opts)
	if err := quadrature.CheckLimit(n, o.maxSubintervals); err != nil {
		return quadrature.ErrorBounds{}, err
	}
	in, expr, bounds, err := parse(ctx, integral, o)
	if err != nil {
		return quadrature.ErrorBounds{}, err
	}

	d2 := symbolic.DiffN(expr, in.Var, 2)
	d4 := symbolic.DiffN(d2, in.Var, 2)
	var k [2]float64
	for i, d := range []symbolic.Expr{d2, d4} {
		f, err := symbolic.Compile(d, in.Var)
		if err != nil {
			return quadrature.ErrorBounds{}, err
		}
		if k[i], err = quadrature.MaxAbs(f, bounds); err != nil {
			return quadrature.ErrorBounds{}, err
		}
	}
	o.logger.Debug("derivative maxima", "d2", d2.String(), "k2", k[0], "k4", k[1])
	return quadrature.NewErrorBounds(k[0], k[1], bounds, n)
}

// Evaluate is the request boundary: it returns the six rounded keys T_n,
// M_n, S_n, E_T, E_M and E_S, or a single "error" key holding a
// human-readable message.
func Evaluate(ctx context.Context, integral string, n int, opts ...Option) map[string]any {
	report, err := Approximate(ctx, integral, n, opts...)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	out := make(map[string]any, len(quadrature.Keys))
	for k, v := range report.Map() {
		out[k] = v
	}
	return out
}
