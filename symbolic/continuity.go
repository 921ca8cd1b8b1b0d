package symbolic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ============================================================
// Continuity of antiderivatives
// ============================================================

// continuitySamples is the number of subintervals scanned for poles.
const continuitySamples = 1000

// checkContinuous fails with an *EvaluationError when anti has a pole or a
// jump inside [a, b], where F(b) - F(a) would not be the integral. The
// candidate points are the zeros of whatever anti divides by or takes the
// log of, plus interior samples where anti is not finite.
func checkContinuous(anti Expr, varName string, a, b float64) error {
	ev, err := Compile(anti, varName)
	if err != nil {
		return err
	}
	lo, hi := math.Min(a, b), math.Max(a, b)
	xs := floats.Span(make([]float64, continuitySamples+1), lo, hi)

	var candidates []float64
	for i, y := range ev.Map(xs) {
		if i > 0 && i < continuitySamples && !finite(y) {
			candidates = append(candidates, xs[i])
		}
	}
	for _, p := range poleFactors(anti, nil) {
		if !dependsOn(p, varName) {
			continue
		}
		g, err := Compile(p, varName)
		if err != nil {
			return err
		}
		candidates = append(candidates, zeros(g, xs)...)
	}

	for _, x0 := range candidates {
		if !continuousAt(ev, x0, lo, hi) {
			return &EvaluationError{Expr: anti.String(), X: x0}
		}
	}
	return nil
}

// poleFactors collects the sub-expressions whose zeros can make e blow up:
// bases of negative powers, arguments of ln, and the cos or sin that tan,
// sec, csc and cot divide by.
func poleFactors(e Expr, out []Expr) []Expr {
	switch t := e.(type) {
	case *Add:
		for _, term := range t.terms {
			out = poleFactors(term, out)
		}
	case *Mul:
		for _, f := range t.factors {
			out = poleFactors(f, out)
		}
	case *Pow:
		if en, ok := t.exp.(*Num); ok && en.IsNegative() {
			out = append(out, unwrapAbs(t.base))
		}
		out = poleFactors(t.base, out)
		out = poleFactors(t.exp, out)
	case *Func:
		switch t.name {
		case "ln":
			out = append(out, unwrapAbs(t.arg))
		case "tan", "sec":
			out = append(out, CosOf(t.arg))
		case "csc", "cot":
			out = append(out, SinOf(t.arg))
		}
		out = poleFactors(t.arg, out)
	}
	return out
}

func unwrapAbs(e Expr) Expr {
	if f, ok := e.(*Func); ok && f.name == "abs" {
		return f.arg
	}
	return e
}

// zeros returns the samples where g is zero and a root bracketed by each
// sign change between neighbours.
func zeros(g *Evaluator, xs []float64) []float64 {
	ys := g.Map(xs)
	var out []float64
	for i, y := range ys {
		if y == 0 {
			out = append(out, xs[i])
			continue
		}
		if i == 0 || !finite(y) || !finite(ys[i-1]) || ys[i-1] == 0 {
			continue
		}
		if math.Signbit(y) != math.Signbit(ys[i-1]) {
			out = append(out, bisect(g, xs[i-1], xs[i], ys[i-1]))
		}
	}
	return out
}

func bisect(g *Evaluator, lo, hi, glo float64) float64 {
	for i := 0; i < 100; i++ {
		mid := lo + (hi-lo)/2
		if mid == lo || mid == hi {
			break
		}
		gm := g.At(mid)
		if gm == 0 {
			return mid
		}
		if math.Signbit(gm) == math.Signbit(glo) {
			lo, glo = mid, gm
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2
}

// continuousAt approaches x0 from each side that lies inside [lo, hi] and
// requires ev to settle to one finite value.
func continuousAt(ev *Evaluator, x0, lo, hi float64) bool {
	delta := 1e-6 * math.Max(1, hi-lo)
	var limits []float64
	for _, side := range [...]float64{-1, 1} {
		far, near := x0+side*delta, x0+side*delta/1000
		if far < lo || far > hi {
			continue
		}
		yf, yc := ev.At(far), ev.At(near)
		if !finite(yf) || !finite(yc) || !settled(yf, yc) {
			return false
		}
		limits = append(limits, yc)
	}
	return len(limits) < 2 || settled(limits[0], limits[1])
}

func settled(a, b float64) bool {
	return math.Abs(a-b) <= 1e-3*(1+math.Abs(a))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
