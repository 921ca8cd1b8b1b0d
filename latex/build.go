package latex

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/njchilds90/goquad/symbolic"
)

// Parse builds an expression tree from a LaTeX math fragment such as
// `\frac{6}{\sqrt{x}}`. The letter e is Euler's number and \pi is π; other
// single letters and Greek commands become symbols.
func Parse(s string) (symbolic.Expr, error) {
	src := normalize(s)
	if src == "" {
		return nil, &BuildError{Input: s, Err: fmt.Errorf("empty expression")}
	}
	tree, err := mathParser.ParseString("", src)
	if err != nil {
		return nil, &BuildError{Input: s, Err: err}
	}
	e, err := tree.expr()
	if err != nil {
		return nil, &BuildError{Input: s, Err: err}
	}
	return e, nil
}

// ParseLimit parses an integration limit and evaluates it to a finite
// number. Limits may use the full grammar: -1, \pi, \frac{\pi}{2}, \sqrt{2}.
func ParseLimit(s string) (float64, error) {
	e, err := Parse(s)
	if err != nil {
		return 0, err
	}
	n, ok := e.Eval()
	if !ok {
		if syms := symbolic.SortedSymbols(e); len(syms) > 0 {
			return 0, &BuildError{Input: s, Err: fmt.Errorf("limit depends on %s", strings.Join(syms, ", "))}
		}
		return 0, &BuildError{Input: s, Err: fmt.Errorf("limit is undefined")}
	}
	v := n.Float64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &BuildError{Input: s, Err: fmt.Errorf("limit is not finite")}
	}
	return v, nil
}

var (
	spacing  = regexp.MustCompile(`\\[,;:! ]|\\quad\b|\\qquad\b`)
	sizing   = regexp.MustCompile(`\\(?:left|right|big|Big|bigg|Bigg)\b\s*`)
	absLeft  = regexp.MustCompile(`\\left\s*(?:\||\\vert\b|\\lvert\b)`)
	absRight = regexp.MustCompile(`\\right\s*(?:\||\\vert\b|\\rvert\b)`)
)

// normalize rewrites escaped and presentational LaTeX into the grammar's
// token set. Plain bars pair up left to right as \lvert and \rvert.
func normalize(s string) string {
	s = strings.ReplaceAll(s, `\\`, `\`)
	s = absLeft.ReplaceAllString(s, `\lvert `)
	s = absRight.ReplaceAllString(s, `\rvert `)
	s = sizing.ReplaceAllString(s, "")
	s = spacing.ReplaceAllString(s, " ")

	var b strings.Builder
	open := false
	for _, r := range s {
		if r != '|' {
			b.WriteRune(r)
			continue
		}
		if open {
			b.WriteString(`\rvert `)
		} else {
			b.WriteString(`\lvert `)
		}
		open = !open
	}
	return strings.TrimSpace(b.String())
}

// ============================================================
// Tree construction
// ============================================================

func (n *sumNode) expr() (symbolic.Expr, error) {
	head, err := n.Head.expr()
	if err != nil {
		return nil, err
	}
	terms := []symbolic.Expr{head}
	for _, t := range n.Tail {
		e, err := t.Term.expr()
		if err != nil {
			return nil, err
		}
		if t.Op == "-" {
			e = symbolic.MulOf(symbolic.N(-1), e)
		}
		terms = append(terms, e)
	}
	return symbolic.AddOf(terms...), nil
}

func (n *termNode) expr() (symbolic.Expr, error) {
	head, err := n.Head.expr()
	if err != nil {
		return nil, err
	}
	factors := []symbolic.Expr{head}
	if n.Neg {
		factors = append(factors, symbolic.N(-1))
	}
	for _, f := range n.Tail {
		e, err := f.Factor.expr()
		if err != nil {
			return nil, err
		}
		if f.Op == "/" {
			e = symbolic.PowOf(e, symbolic.N(-1))
		}
		factors = append(factors, e)
	}
	return symbolic.MulOf(factors...), nil
}

func (n *powNode) expr() (symbolic.Expr, error) {
	base, err := n.Base.expr()
	if err != nil {
		return nil, err
	}
	return raise(base, n.Exp)
}

func raise(base symbolic.Expr, exp *exponent) (symbolic.Expr, error) {
	if exp == nil {
		return base, nil
	}
	e, err := exp.expr()
	if err != nil {
		return nil, err
	}
	return symbolic.PowOf(base, e), nil
}

func (n *exponent) expr() (symbolic.Expr, error) {
	if n.Group != nil {
		return n.Group.expr()
	}
	e, err := n.Atom.Atom.expr()
	if err != nil {
		return nil, err
	}
	if n.Atom.Neg {
		return symbolic.MulOf(symbolic.N(-1), e), nil
	}
	return e, nil
}

func (n *primary) expr() (symbolic.Expr, error) {
	switch {
	case n.Number != nil:
		return number(*n.Number)
	case n.Frac != nil:
		return n.Frac.expr()
	case n.Sqrt != nil:
		return n.Sqrt.expr()
	case n.Call != nil:
		return n.Call.expr()
	case n.Abs != nil:
		e, err := n.Abs.expr()
		if err != nil {
			return nil, err
		}
		return symbolic.AbsOf(e), nil
	case n.Command != nil:
		return command(*n.Command)
	case n.Ident != nil:
		return ident(*n.Ident), nil
	case n.Paren != nil:
		return n.Paren.expr()
	case n.Group != nil:
		return n.Group.expr()
	}
	return nil, fmt.Errorf("empty primary")
}

func (n *fracNode) expr() (symbolic.Expr, error) {
	num, err := n.Num.expr()
	if err != nil {
		return nil, err
	}
	den, err := n.Den.expr()
	if err != nil {
		return nil, err
	}
	if d, ok := den.(*symbolic.Num); ok && d.IsZero() {
		return nil, fmt.Errorf("division by zero")
	}
	return symbolic.MulOf(num, symbolic.PowOf(den, symbolic.N(-1))), nil
}

func (n *sqrtNode) expr() (symbolic.Expr, error) {
	arg, err := n.Arg.expr()
	if err != nil {
		return nil, err
	}
	if n.Index == nil {
		return symbolic.SqrtOf(arg), nil
	}
	idx, err := n.Index.expr()
	if err != nil {
		return nil, err
	}
	return symbolic.PowOf(arg, symbolic.PowOf(idx, symbolic.N(-1))), nil
}

var funcNames = map[string]string{
	"arcsin": "asin",
	"arccos": "acos",
	"arctan": "atan",
	"log":    "ln",
}

var inverses = map[string]string{
	"sin": "asin",
	"cos": "acos",
	"tan": "atan",
}

func (n *callNode) expr() (symbolic.Expr, error) {
	name := strings.TrimPrefix(n.Name, `\`)
	if alias, ok := funcNames[name]; ok {
		name = alias
	}
	arg, err := n.Arg.expr()
	if err != nil {
		return nil, err
	}
	if n.Power == nil {
		return symbolic.FuncOf(name, arg), nil
	}
	power, err := n.Power.expr()
	if err != nil {
		return nil, err
	}
	if p, ok := power.(*symbolic.Num); ok && p.IsNegOne() {
		inv, ok := inverses[name]
		if !ok {
			return nil, fmt.Errorf(`no inverse for \%s`, name)
		}
		return symbolic.FuncOf(inv, arg), nil
	}
	return symbolic.PowOf(symbolic.FuncOf(name, arg), power), nil
}

func (n *callArg) expr() (symbolic.Expr, error) {
	switch {
	case n.Paren != nil:
		return n.Paren.expr()
	case n.Group != nil:
		return n.Group.expr()
	}
	factors := make([]symbolic.Expr, 0, len(n.Bare.Factors))
	for _, f := range n.Bare.Factors {
		base, err := f.Base.expr()
		if err != nil {
			return nil, err
		}
		e, err := raise(base, f.Exp)
		if err != nil {
			return nil, err
		}
		factors = append(factors, e)
	}
	return symbolic.MulOf(factors...), nil
}

func (n *bareAtom) expr() (symbolic.Expr, error) {
	switch {
	case n.Number != nil:
		return number(*n.Number)
	case n.Frac != nil:
		return n.Frac.expr()
	case n.Sqrt != nil:
		return n.Sqrt.expr()
	case n.Command != nil:
		return command(*n.Command)
	}
	return ident(*n.Ident), nil
}

// ============================================================
// Leaves
// ============================================================

func number(s string) (symbolic.Expr, error) {
	n, err := symbolic.ParseNum(s)
	if err != nil {
		return nil, err
	}
	return n, nil
}

var greek = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"zeta": true, "eta": true, "theta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "rho": true,
	"sigma": true, "tau": true, "phi": true, "chi": true, "psi": true, "omega": true,
}

func command(s string) (symbolic.Expr, error) {
	name := strings.TrimPrefix(s, `\`)
	switch {
	case name == "pi":
		return symbolic.Pi(), nil
	case name == "infty":
		return nil, fmt.Errorf("improper integrals are not supported")
	case greek[name]:
		return symbolic.S(name), nil
	}
	return nil, fmt.Errorf(`unsupported command \%s`, name)
}

func ident(s string) symbolic.Expr {
	if s == "e" {
		return symbolic.E()
	}
	return symbolic.S(s)
}
