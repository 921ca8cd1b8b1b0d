package symbolic

import "sort"

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// SortedSymbols returns the free symbol names of e in lexical order.
func SortedSymbols(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

func dependsOn(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

// ============================================================
// Expansion
// ============================================================

func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = distribute(result, expandExpr(f))
		}
		return result
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		n, ok := v.exp.(*Num)
		if !ok || !n.IsInteger() {
			return v
		}
		k := n.val.Num().Int64()
		base, isAdd := expandExpr(v.base).(*Add)
		if !isAdd || k < 2 || k > 10 {
			return v
		}
		result := Expr(base)
		for i := int64(1); i < k; i++ {
			result = distribute(result, base)
		}
		return result
	}
	return e
}

// distribute multiplies two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	ta, tb := termsOf(a), termsOf(b)
	terms := make([]Expr, 0, len(ta)*len(tb))
	for _, x := range ta {
		for _, y := range tb {
			terms = append(terms, MulOf(x, y))
		}
	}
	return AddOf(terms...)
}

func termsOf(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Linear forms
// ============================================================

// linear matches e against a*varName + b with a, b free of varName and
// a non-zero.
func linear(e Expr, varName string) (a, b Expr, ok bool) {
	aTerms := []Expr{}
	bTerms := []Expr{}
	terms := []Expr{Expand(e)}
	if sum, isAdd := terms[0].(*Add); isAdd {
		terms = sum.terms
	}
	for _, t := range terms {
		if !dependsOn(t, varName) {
			bTerms = append(bTerms, t)
			continue
		}
		coeff, ok := linearCoeff(t, varName)
		if !ok {
			return nil, nil, false
		}
		aTerms = append(aTerms, coeff)
	}
	a = AddOf(aTerms...)
	if n, isNum := a.(*Num); isNum && n.IsZero() {
		return nil, nil, false
	}
	return a, AddOf(bTerms...), true
}

func linearCoeff(t Expr, varName string) (Expr, bool) {
	switch v := t.(type) {
	case *Sym:
		return N(1), v.name == varName
	case *Mul:
		coeff := []Expr{}
		found := false
		for _, f := range v.factors {
			if !dependsOn(f, varName) {
				coeff = append(coeff, f)
				continue
			}
			if s, ok := f.(*Sym); !ok || s.name != varName || found {
				return nil, false
			}
			found = true
		}
		return MulOf(coeff...), found
	}
	return nil, false
}
