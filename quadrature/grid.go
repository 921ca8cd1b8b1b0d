package quadrature

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Bounds is the integration interval. Lower may exceed Upper, in which case
// every rule returns the signed integral.
type Bounds struct {
	Lower float64
	Upper float64
}

func (b Bounds) Width() float64 { return b.Upper - b.Lower }

func (b Bounds) validate() error {
	for _, v := range [...]float64{b.Lower, b.Upper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &BoundsError{Bounds: b}
		}
	}
	return nil
}

// Grid holds the sample points shared by the three rules: n+1 equally
// spaced points across the interval and the n subinterval midpoints.
type Grid struct {
	Bounds    Bounds
	N         int
	Step      float64
	Points    []float64
	Midpoints []float64
}

// NewGrid builds the grid for n subintervals. n must be at least 1.
func NewGrid(b Bounds, n int) (*Grid, error) {
	if n < 1 {
		return nil, &InvalidSubintervalCountError{N: n}
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	step := b.Width() / float64(n)

	points := floats.Span(make([]float64, n+1), b.Lower, b.Upper)
	points[n] = b.Upper

	mids := make([]float64, n)
	copy(mids, points[:n])
	floats.AddConst(step/2, mids)

	return &Grid{
		Bounds:    b,
		N:         n,
		Step:      step,
		Points:    points,
		Midpoints: mids,
	}, nil
}

// sample evaluates f over xs and fails on the first non-finite value.
func sample(f Integrand, xs []float64, rule Rule) ([]float64, error) {
	ys := f.Map(xs)
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, &DomainError{X: xs[i], Value: y, Rule: rule}
		}
	}
	return ys, nil
}
