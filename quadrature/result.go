package quadrature

import "gonum.org/v1/gonum/floats/scalar"

// Exact is the reference value used for error terms. The zero value is
// unknown.
type Exact struct {
	Value float64
	Known bool
}

func Known(v float64) Exact { return Exact{Value: v, Known: true} }
func Unknown() Exact        { return Exact{} }

// Output keys of Result.Map.
const (
	KeyTrapezoidal    = "T_n"
	KeyMidpoint       = "M_n"
	KeySimpson        = "S_n"
	KeyErrTrapezoidal = "E_T"
	KeyErrMidpoint    = "E_M"
	KeyErrSimpson     = "E_S"
)

// Keys lists the output keys in reporting order.
var Keys = []string{
	KeyTrapezoidal, KeyMidpoint, KeySimpson,
	KeyErrTrapezoidal, KeyErrMidpoint, KeyErrSimpson,
}

// Result holds the three approximations at full precision. The error
// fields are meaningful only when Exact.Known is true.
type Result struct {
	N      int
	Bounds Bounds
	Exact  Exact

	Trapezoidal float64
	Midpoint    float64
	Simpson     float64

	ErrTrapezoidal float64
	ErrMidpoint    float64
	ErrSimpson     float64
}

// Map returns the report keyed by T_n, M_n, S_n, E_T, E_M and E_S, each
// rounded to precision decimal places. The error keys are omitted when the
// exact value is unknown.
func (r Result) Map(precision int) map[string]float64 {
	out := map[string]float64{
		KeyTrapezoidal: Round(r.Trapezoidal, precision),
		KeyMidpoint:    Round(r.Midpoint, precision),
		KeySimpson:     Round(r.Simpson, precision),
	}
	if r.Exact.Known {
		out[KeyErrTrapezoidal] = Round(r.ErrTrapezoidal, precision)
		out[KeyErrMidpoint] = Round(r.ErrMidpoint, precision)
		out[KeyErrSimpson] = Round(r.ErrSimpson, precision)
	}
	return out
}

// Round rounds v to precision decimal places, ties to even. Negative zero
// becomes zero.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	r := scalar.RoundEven(v, precision)
	if r == 0 {
		return 0
	}
	return r
}
