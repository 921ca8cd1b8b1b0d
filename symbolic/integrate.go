package symbolic

import (
	"fmt"
)

// ============================================================
// Integration (rule-based symbolic)
// ============================================================

// Integrate returns an antiderivative of expr with respect to varName. The
// second result is false when no rule applies.
func Integrate(expr Expr, varName string) (Expr, bool) {
	expr = expr.Simplify()
	x := S(varName)
	if !dependsOn(expr, varName) {
		return MulOf(expr, x), true
	}
	switch v := expr.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(x, N(2))), true
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			it, ok := Integrate(t, varName)
			if !ok {
				return nil, false
			}
			terms[i] = it
		}
		return AddOf(terms...), true
	case *Mul:
		consts := []Expr{}
		deps := []Expr{}
		for _, f := range v.factors {
			if dependsOn(f, varName) {
				deps = append(deps, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(deps) == 1 {
			inner, ok := Integrate(deps[0], varName)
			if !ok {
				return nil, false
			}
			return MulOf(append(consts, inner)...), true
		}
		// Products of polynomials become sums; anything else has no rule.
		if expanded, ok := Expand(v).(*Add); ok {
			return Integrate(expanded, varName)
		}
		return nil, false
	case *Pow:
		return integratePow(v, varName)
	case *Func:
		return integrateFunc(v, varName)
	}
	return nil, false
}

func integratePow(p *Pow, varName string) (Expr, bool) {
	baseDep := dependsOn(p.base, varName)
	expDep := dependsOn(p.exp, varName)
	switch {
	case baseDep && !expDep:
		if r, ok := integrateTrigSquare(p, varName); ok {
			return r, true
		}
		if a, _, ok := linear(p.base, varName); ok {
			// ∫(ax+b)^-1 = ln|ax+b|/a, ∫(ax+b)^k = (ax+b)^(k+1)/(a(k+1))
			if n, isNum := p.exp.(*Num); isNum && n.IsNegOne() {
				return MulOf(PowOf(a, N(-1)), LnOf(AbsOf(p.base))), true
			}
			k1 := AddOf(p.exp, N(1))
			return MulOf(PowOf(MulOf(a, k1), N(-1)), PowOf(p.base, k1)), true
		}
		if n, isNum := p.exp.(*Num); isNum && n.IsInteger() && n.IsPositive() {
			if expanded, ok := Expand(p).(*Add); ok {
				return Integrate(expanded, varName)
			}
		}
	case !baseDep && expDep:
		// ∫c^(ax+b) = c^(ax+b) / (a ln c)
		if a, _, ok := linear(p.exp, varName); ok {
			return MulOf(p, PowOf(MulOf(a, LnOf(p.base)), N(-1))), true
		}
	}
	return nil, false
}

// integrateTrigSquare covers sin², cos², sec² and csc² of a linear argument.
func integrateTrigSquare(p *Pow, varName string) (Expr, bool) {
	n, ok := p.exp.(*Num)
	if !ok || !n.Equal(N(2)) {
		return nil, false
	}
	f, ok := p.base.(*Func)
	if !ok {
		return nil, false
	}
	a, _, ok := linear(f.arg, varName)
	if !ok {
		return nil, false
	}
	u := f.arg
	var g Expr
	switch f.name {
	case "sin":
		g = AddOf(MulOf(F(1, 2), u), MulOf(F(-1, 4), SinOf(MulOf(N(2), u))))
	case "cos":
		g = AddOf(MulOf(F(1, 2), u), MulOf(F(1, 4), SinOf(MulOf(N(2), u))))
	case "sec":
		g = TanOf(u)
	case "csc":
		g = MulOf(N(-1), CotOf(u))
	default:
		return nil, false
	}
	return MulOf(PowOf(a, N(-1)), g), true
}

func integrateFunc(f *Func, varName string) (Expr, bool) {
	a, _, ok := linear(f.arg, varName)
	if !ok {
		return nil, false
	}
	u := f.arg
	var g Expr
	switch f.name {
	case "sin":
		g = MulOf(N(-1), CosOf(u))
	case "cos":
		g = SinOf(u)
	case "tan":
		g = MulOf(N(-1), LnOf(AbsOf(CosOf(u))))
	case "sec":
		g = LnOf(AbsOf(AddOf(SecOf(u), TanOf(u))))
	case "csc":
		g = MulOf(N(-1), LnOf(AbsOf(AddOf(CscOf(u), CotOf(u)))))
	case "cot":
		g = LnOf(AbsOf(SinOf(u)))
	case "exp":
		g = ExpOf(u)
	case "sinh":
		g = CoshOf(u)
	case "cosh":
		g = SinhOf(u)
	case "tanh":
		g = LnOf(CoshOf(u))
	case "ln":
		g = AddOf(MulOf(u, LnOf(u)), MulOf(N(-1), u))
	case "asin":
		g = AddOf(MulOf(u, AsinOf(u)), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2))))))
	case "acos":
		g = AddOf(MulOf(u, AcosOf(u)), MulOf(N(-1), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))))))
	case "atan":
		g = AddOf(MulOf(u, AtanOf(u)), MulOf(F(-1, 2), LnOf(AddOf(N(1), PowOf(u, N(2))))))
	case "abs":
		g = MulOf(F(1, 2), u, AbsOf(u))
	default:
		return nil, false
	}
	return MulOf(PowOf(a, N(-1)), g), true
}

// ============================================================
// Definite integration
// ============================================================

// DefiniteIntegral evaluates F(b) - F(a) for an antiderivative F of expr.
// A zero-length interval is 0 whether or not a closed form exists. F must
// be continuous on [a, b]; a pole or jump inside the interval fails with an
// *EvaluationError at that point.
func DefiniteIntegral(expr Expr, varName string, a, b float64) (float64, error) {
	if a == b {
		return 0, nil
	}
	anti, ok := Integrate(expr, varName)
	if !ok {
		return 0, fmt.Errorf("%w for %s", ErrNoClosedForm, expr.String())
	}
	fb, err := evalAt(anti, varName, b)
	if err != nil {
		return 0, err
	}
	fa, err := evalAt(anti, varName, a)
	if err != nil {
		return 0, err
	}
	if err := checkContinuous(anti, varName, a, b); err != nil {
		return 0, err
	}
	return fb - fa, nil
}

func evalAt(e Expr, varName string, x float64) (float64, error) {
	at, ok := floatNum(x)
	if !ok {
		return 0, &EvaluationError{Expr: e.String(), X: x}
	}
	v, ok := e.Sub(varName, at).Eval()
	if !ok {
		return 0, &EvaluationError{Expr: e.String(), X: x}
	}
	return v.Float64(), nil
}
