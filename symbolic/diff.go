package symbolic

// ============================================================
// Differentiation
// ============================================================

// Diff returns d(expr)/d(varName), simplified. Functions without a known
// derivative produce an opaque D[name](u) factor that Compile rejects.
func Diff(expr Expr, varName string) Expr {
	return diff(expr, varName).Simplify()
}

// DiffN applies Diff n times.
func DiffN(expr Expr, varName string, n int) Expr {
	for i := 0; i < n; i++ {
		expr = Diff(expr, varName)
	}
	return expr
}

func diff(e Expr, varName string) Expr {
	if !dependsOn(e, varName) {
		return N(0)
	}
	switch t := e.(type) {
	case *Sym:
		return N(1)
	case *Add:
		terms := make([]Expr, len(t.terms))
		for i, term := range t.terms {
			terms[i] = diff(term, varName)
		}
		return AddOf(terms...)
	case *Mul:
		// product rule
		terms := make([]Expr, 0, len(t.factors))
		for i, fi := range t.factors {
			if !dependsOn(fi, varName) {
				continue
			}
			factors := make([]Expr, 0, len(t.factors))
			factors = append(factors, diff(fi, varName))
			for j, fj := range t.factors {
				if j != i {
					factors = append(factors, fj)
				}
			}
			terms = append(terms, MulOf(factors...))
		}
		return AddOf(terms...)
	case *Pow:
		return diffPow(t, varName)
	case *Func:
		return MulOf(funcDerivative(t), diff(t.arg, varName))
	}
	return N(0)
}

func diffPow(p *Pow, varName string) Expr {
	du := diff(p.base, varName)
	if !dependsOn(p.exp, varName) {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	dv := diff(p.exp, varName)
	if !dependsOn(p.base, varName) {
		return MulOf(p, LnOf(p.base), dv)
	}
	// d(u^v) = u^v (v' ln u + v u'/u)
	return MulOf(p, AddOf(
		MulOf(dv, LnOf(p.base)),
		MulOf(p.exp, du, PowOf(p.base, N(-1))),
	))
}

// funcDerivative returns f'(u) for f(u), without the chain factor.
func funcDerivative(f *Func) Expr {
	u := f.arg
	oneMinusSq := AddOf(N(1), MulOf(N(-1), PowOf(u, N(2))))
	switch f.name {
	case "sin":
		return CosOf(u)
	case "cos":
		return MulOf(N(-1), SinOf(u))
	case "tan":
		return PowOf(SecOf(u), N(2))
	case "sec":
		return MulOf(SecOf(u), TanOf(u))
	case "csc":
		return MulOf(N(-1), CscOf(u), CotOf(u))
	case "cot":
		return MulOf(N(-1), PowOf(CscOf(u), N(2)))
	case "asin":
		return PowOf(oneMinusSq, F(-1, 2))
	case "acos":
		return MulOf(N(-1), PowOf(oneMinusSq, F(-1, 2)))
	case "atan":
		return PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		return CoshOf(u)
	case "cosh":
		return SinhOf(u)
	case "tanh":
		return AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(u), N(2))))
	case "exp":
		return ExpOf(u)
	case "ln":
		return PowOf(u, N(-1))
	case "abs":
		// sign(u), undefined at u = 0
		return MulOf(u, PowOf(AbsOf(u), N(-1)))
	}
	return FuncOf("D["+f.name+"]", u)
}
