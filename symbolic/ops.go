package symbolic

import (
	"math"
	"sort"
	"strings"
)

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and collects like terms
// (2*x + 3*x -> 5*x). Terms are ordered by their string form.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := splitCoeff(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	sort.Strings(order)
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
			continue
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff separates the leading numeric factor of a simplified term.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) < 2 {
		return N(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 2 {
		return c, m.factors[1]
	}
	return c, &Mul{factors: m.factors[1:]}
}

// negated reports whether e prints with a leading minus and returns its
// absolute form.
func negated(e Expr) (Expr, bool) {
	switch v := e.(type) {
	case *Num:
		if v.IsNegative() {
			return numNeg(v), true
		}
	case *Mul:
		c, rest := splitCoeff(v)
		if c.IsNegative() {
			if c.IsNegOne() {
				return rest, true
			}
			return MulOf(numNeg(c), rest), true
		}
	}
	return e, false
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		abs, neg := negated(t)
		switch {
		case i == 0 && neg:
			sb.WriteString("-" + abs.String())
		case i == 0:
			sb.WriteString(t.String())
		case neg:
			sb.WriteString(" - " + abs.String())
		default:
			sb.WriteString(" + " + t.String())
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		abs, neg := negated(t)
		switch {
		case i == 0 && neg:
			sb.WriteString("-" + abs.LaTeX())
		case i == 0:
			sb.WriteString(t.LaTeX())
		case neg:
			sb.WriteString(" - " + abs.LaTeX())
		default:
			sb.WriteString(" + " + t.LaTeX())
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return a.terms }

func (a *Add) compile(varName string) (evalFn, error) {
	fns, err := compileAll(a.terms, varName)
	if err != nil {
		return nil, err
	}
	return func(x float64) float64 {
		sum := 0.0
		for _, f := range fns {
			sum += f(x)
		}
		return sum
	}, nil
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numbers into a leading
// coefficient and merges factors sharing a base (x * x^(1/2) -> x^(3/2)).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := splitPower(f)
		key := base.String()
		if prev, seen := exps[key]; seen {
			exps[key] = AddOf(prev, exp)
			continue
		}
		order = append(order, key)
		bases[key] = base
		exps[key] = exp
	}
	if coeff.IsZero() {
		return N(0)
	}
	sort.Strings(order)
	others := make([]Expr, 0, len(order))
	for _, key := range order {
		switch v := PowOf(bases[key], exps[key]).(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			for _, f := range v.factors {
				if n, ok := f.(*Num); ok {
					coeff = numMul(coeff, n)
				} else {
					others = append(others, f)
				}
			}
		default:
			others = append(others, v)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}
	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func splitPower(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		parts[i] = factorString(f)
	}
	if n, ok := m.factors[0].(*Num); ok && n.IsNegOne() && len(m.factors) > 1 {
		return "-" + strings.Join(parts[1:], "*")
	}
	return strings.Join(parts, "*")
}

func factorString(f Expr) string {
	if _, isAdd := f.(*Add); isAdd {
		return "(" + f.String() + ")"
	}
	return f.String()
}

// LaTeX renders negative powers as a fraction.
func (m *Mul) LaTeX() string {
	var num, den []string
	sign := ""
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			if v.IsNegative() {
				sign = "-"
				v = numNeg(v)
			}
			if !v.readable() {
				num = append(num, v.LaTeX())
				continue
			}
			r := v.Rat()
			if !r.Num().IsInt64() || r.Num().Int64() != 1 || len(m.factors) == 1 {
				num = append(num, r.Num().String())
			}
			if !r.IsInt() {
				den = append(den, r.Denom().String())
			}
		case *Pow:
			if e, ok := v.exp.(*Num); ok && e.IsNegative() {
				den = append(den, PowOf(v.base, numNeg(e)).LaTeX())
				continue
			}
			num = append(num, v.LaTeX())
		case *Add:
			num = append(num, "\\left("+v.LaTeX()+"\\right)")
		default:
			num = append(num, v.LaTeX())
		}
	}
	numStr := strings.Join(num, " \\cdot ")
	if numStr == "" {
		numStr = "1"
	}
	if len(den) == 0 {
		return sign + numStr
	}
	return sign + "\\frac{" + numStr + "}{" + strings.Join(den, " \\cdot ") + "}"
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }

func (m *Mul) compile(varName string) (evalFn, error) {
	fns, err := compileAll(m.factors, varName)
	if err != nil {
		return nil, err
	}
	return func(x float64) float64 {
		prod := 1.0
		for _, f := range fns {
			prod *= f(x)
		}
		return prod
	}, nil
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}
	if c, ok := base.(*Const); ok && c.name == "e" {
		return ExpOf(exp)
	}

	// 0^0 and 0^negative stay unevaluated.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 && !en.IsPositive() {
			return &Pow{base: base, exp: exp}
		}
		return N(0)
	}
	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			e := en.val.Num().Int64()
			if e >= -20 && e <= 20 {
				k := e
				if k < 0 {
					k = -k
				}
				result := N(1)
				for i := int64(0); i < k; i++ {
					result = numMul(result, bn)
				}
				if e < 0 {
					return numRecip(result)
				}
				return result
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		if merged, ok := mergePowers(inner, exp); ok {
			return merged
		}
	}
	// |u|^(2k) = u^(2k)
	if f, ok := base.(*Func); ok && f.name == "abs" {
		if en, ok2 := exp.(*Num); ok2 && isEven(en) {
			return PowOf(f.arg, en)
		}
	}
	return &Pow{base: base, exp: exp}
}

// mergePowers rewrites (u^a)^b as a single power only where both forms
// agree over the reals, including where they are undefined. (u^2)^(1/2)
// becomes |u|, and (u^(1/2))^2 is kept unless u is known non-negative.
func mergePowers(inner *Pow, b Expr) (Expr, bool) {
	u, a := inner.base, inner.exp
	if nonNegative(u) {
		return PowOf(u, MulOf(a, b)), true
	}
	an, ok1 := a.(*Num)
	bn, ok2 := b.(*Num)
	if !ok1 || !ok2 {
		return nil, false
	}
	ab := numMul(an, bn)
	switch {
	case an.IsInteger() && bn.IsInteger():
		return PowOf(u, ab), true
	case isEven(an):
		return PowOf(AbsOf(u), ab), true
	case !ab.IsInteger():
		// both sides need u >= 0
		return PowOf(u, ab), true
	}
	return nil, false
}

func isEven(n *Num) bool { return n.IsInteger() && n.val.Num().Bit(0) == 0 }

// nonNegative reports whether e is >= 0 wherever it is defined.
func nonNegative(e Expr) bool {
	switch t := e.(type) {
	case *Num:
		return !t.IsNegative()
	case *Const:
		return t.value >= 0
	case *Func:
		return t.name == "abs" || t.name == "exp" || t.name == "cosh"
	case *Pow:
		if en, ok := t.exp.(*Num); ok && (isEven(en) || !en.IsInteger()) {
			return true
		}
		return nonNegative(t.base)
	}
	return false
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch v := p.exp.(type) {
	case *Sym, *Const:
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			expStr = "(" + expStr + ")"
		}
	default:
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	if e, ok := p.exp.(*Num); ok {
		switch {
		case e.Equal(F(1, 2)):
			return "\\sqrt{" + p.base.LaTeX() + "}"
		case e.IsNegative():
			return "\\frac{1}{" + PowOf(p.base, numNeg(e)).LaTeX() + "}"
		}
	}
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow, *Func:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if simplified, ok := PowOf(b, e).(*Num); ok {
		return simplified, true
	}
	if e.Equal(F(1, 2)) {
		return floatNum(math.Sqrt(b.Float64()))
	}
	return floatNum(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

func (p *Pow) compile(varName string) (evalFn, error) {
	base, err := p.base.compile(varName)
	if err != nil {
		return nil, err
	}
	if e, ok := p.exp.(*Num); ok {
		switch {
		case e.Equal(F(1, 2)):
			return func(x float64) float64 { return math.Sqrt(base(x)) }, nil
		case e.Equal(F(-1, 2)):
			return func(x float64) float64 { return 1 / math.Sqrt(base(x)) }, nil
		case e.IsNegOne():
			return func(x float64) float64 { return 1 / base(x) }, nil
		case e.Equal(N(2)):
			return func(x float64) float64 { b := base(x); return b * b }, nil
		}
		k := e.Float64()
		return func(x float64) float64 { return math.Pow(base(x), k) }, nil
	}
	exp, err := p.exp.compile(varName)
	if err != nil {
		return nil, err
	}
	return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
}

func compileAll(es []Expr, varName string) ([]evalFn, error) {
	fns := make([]evalFn, len(es))
	for i, e := range es {
		f, err := e.compile(varName)
		if err != nil {
			return nil, err
		}
		fns[i] = f
	}
	return fns, nil
}
