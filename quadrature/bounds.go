package quadrature

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// BoundSamples is the number of subintervals MaxAbs samples on.
const BoundSamples = 1000

// ErrorBounds holds the worst-case error of each rule for n subintervals:
//
//	|E_T| <= K2 (b-a)^3 / (12 n^2)
//	|E_M| <= K2 (b-a)^3 / (24 n^2)
//	|E_S| <= K4 (b-a)^5 / (180 n^4)
//
// K2 and K4 bound |f''| and |f''''| on the interval. A bound is +Inf when
// the derivative is unbounded there.
type ErrorBounds struct {
	N           int
	K2          float64
	K4          float64
	Trapezoidal float64
	Midpoint    float64
	Simpson     float64
}

// NewErrorBounds computes the bounds from K2 and K4. n must be even and
// positive, as for Approximate.
func NewErrorBounds(k2, k4 float64, b Bounds, n int) (ErrorBounds, error) {
	if err := checkCount(n, RuleSimpson); err != nil {
		return ErrorBounds{}, err
	}
	if err := b.validate(); err != nil {
		return ErrorBounds{}, err
	}
	w := math.Abs(b.Width())
	nf := float64(n)
	return ErrorBounds{
		N:           n,
		K2:          k2,
		K4:          k4,
		Trapezoidal: k2 * math.Pow(w, 3) / (12 * nf * nf),
		Midpoint:    k2 * math.Pow(w, 3) / (24 * nf * nf),
		Simpson:     k4 * math.Pow(w, 5) / (180 * math.Pow(nf, 4)),
	}, nil
}

// MaxAbs estimates max |f| over b from BoundSamples+1 grid points and the
// midpoints between them. Any non-finite sample yields +Inf.
func MaxAbs(f Integrand, b Bounds) (float64, error) {
	g, err := NewGrid(b, BoundSamples)
	if err != nil {
		return 0, err
	}
	ys := append(f.Map(g.Points), f.Map(g.Midpoints)...)
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return math.Inf(1), nil
		}
		ys[i] = math.Abs(y)
	}
	return floats.Max(ys), nil
}

// Map returns the bounds rounded to precision decimals, keyed like the
// errors they bound.
func (e ErrorBounds) Map(precision int) map[string]float64 {
	return map[string]float64{
		KeyErrTrapezoidal: Round(e.Trapezoidal, precision),
		KeyErrMidpoint:    Round(e.Midpoint, precision),
		KeyErrSimpson:     Round(e.Simpson, precision),
	}
}
