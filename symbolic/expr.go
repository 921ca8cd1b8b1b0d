// Package symbolic provides the expression tree behind goquad: exact rational
// numbers, symbols, named constants, sums, products, powers and elementary
// functions, together with substitution, numeric evaluation, rule-based
// antiderivatives and compilation into fast float64 evaluators.
//
// Constructors (AddOf, MulOf, PowOf, SinOf, ...) always return simplified
// trees. Trees are immutable; every operation returns a new tree.
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a single-variable real expression tree.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
	compile(varName string) (evalFn, error)
}

type evalFn func(x float64) float64

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts a finite float64 exactly. It panics on NaN or ±Inf.
func NFloat(f float64) *Num {
	n, ok := floatNum(f)
	if !ok {
		panic(fmt.Sprintf("symbolic: non-finite value %v", f))
	}
	return n
}

// ParseNum reads a decimal literal such as "3", "0.25" or "1/3" exactly.
func ParseNum(s string) (*Num, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &Num{val: r}, nil
}

func floatNum(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}, true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

// readable reports whether the rational prints well as p/q. Values that came
// from float64 folding carry huge power-of-two denominators.
func (n *Num) readable() bool { return n.val.Denom().BitLen() <= 32 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if !n.readable() {
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if !n.readable() {
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val.RatString()}
}

func (n *Num) compile(string) (evalFn, error) {
	v := n.Float64()
	return func(float64) float64 { return v }, nil
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Eval() (*Num, bool)    { return nil, false }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }

func (s *Sym) LaTeX() string {
	if len(s.name) > 1 {
		return "\\" + s.name
	}
	return s.name
}

func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

func (s *Sym) compile(varName string) (evalFn, error) {
	if s.name != varName {
		return nil, &CompileError{Expr: s.name, Reason: fmt.Sprintf("free symbol other than %q", varName)}
	}
	return func(x float64) float64 { return x }, nil
}

// ============================================================
// Const: named real constant
// ============================================================

type Const struct {
	name  string
	value float64
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func Pi() *Const { return &Const{name: "pi", value: math.Pi} }
func E() *Const  { return &Const{name: "e", value: math.E} }

// ConstOf returns the named constant, if known.
func ConstOf(name string) (*Const, bool) {
	v, ok := constants[name]
	if !ok {
		return nil, false
	}
	return &Const{name: name, value: v}, true
}

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Eval() (*Num, bool)    { return floatNum(c.value) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) Value() float64        { return c.value }

func (c *Const) LaTeX() string {
	if c.name == "pi" {
		return "\\pi"
	}
	return c.name
}

func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

func (c *Const) compile(string) (evalFn, error) {
	v := c.value
	return func(float64) float64 { return v }, nil
}
