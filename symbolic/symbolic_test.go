package symbolic_test

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/njchilds90/goquad/symbolic"
)

var x = symbolic.S("x")

func near(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	if got := symbolic.N(42).String(); got != "42" {
		t.Errorf("want 42, got %s", got)
	}
}

func TestNum_Rational(t *testing.T) {
	if got := symbolic.F(1, 3).String(); got != "1/3" {
		t.Errorf("want 1/3, got %s", got)
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	if got := symbolic.F(2, 5).LaTeX(); got != `\frac{2}{5}` {
		t.Errorf(`want \frac{2}{5}, got %s`, got)
	}
}

func TestNum_FloatPrintsAsDecimal(t *testing.T) {
	if got := symbolic.NFloat(0.1).String(); got != "0.1" {
		t.Errorf("want 0.1, got %s", got)
	}
}

func TestParseNum(t *testing.T) {
	n, err := symbolic.ParseNum("0.25")
	if err != nil {
		t.Fatal(err)
	}
	if !n.Equal(symbolic.F(1, 4)) {
		t.Errorf("want 1/4, got %s", n)
	}
	if _, err := symbolic.ParseNum("abc"); err == nil {
		t.Error("want error for abc")
	}
}

// ============================================================
// Simplification
// ============================================================

func TestAdd_LikeTerms(t *testing.T) {
	if got := symbolic.AddOf(x, x).String(); got != "2*x" {
		t.Errorf("want 2*x, got %s", got)
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	if got := symbolic.AddOf(symbolic.N(1), symbolic.N(-1)).String(); got != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestAdd_Subtraction(t *testing.T) {
	if got := symbolic.AddOf(x, symbolic.N(-3)).String(); got != "x - 3" {
		t.Errorf("want 'x - 3', got %s", got)
	}
}

func TestMul_MergesPowers(t *testing.T) {
	if got := symbolic.MulOf(x, x).String(); got != "x^2" {
		t.Errorf("want x^2, got %s", got)
	}
	if got := symbolic.MulOf(x, symbolic.SqrtOf(x)).String(); got != "x^(3/2)" {
		t.Errorf("want x^(3/2), got %s", got)
	}
	if got := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))).String(); got != "1" {
		t.Errorf("want 1, got %s", got)
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	if got := symbolic.MulOf(symbolic.N(0), x).String(); got != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestPow_NumericFold(t *testing.T) {
	if got := symbolic.PowOf(symbolic.N(2), symbolic.N(10)).String(); got != "1024" {
		t.Errorf("want 1024, got %s", got)
	}
}

func TestPow_ReciprocalSqrt(t *testing.T) {
	got := symbolic.PowOf(symbolic.SqrtOf(x), symbolic.N(-1)).String()
	if got != "x^(-1/2)" {
		t.Errorf("want x^(-1/2), got %s", got)
	}
}

func TestPow_NestedKeepsRealDomain(t *testing.T) {
	sq := symbolic.PowOf(x, symbolic.N(2))
	tests := []struct {
		name string
		expr symbolic.Expr
		want string
	}{
		{"sqrt of square", symbolic.SqrtOf(sq), "abs(x)"},
		{"square of sqrt", symbolic.PowOf(symbolic.SqrtOf(x), symbolic.N(2)), "(x^(1/2))^2"},
		{"integer powers", symbolic.PowOf(sq, symbolic.N(3)), "x^6"},
		{"odd inner power", symbolic.SqrtOf(symbolic.PowOf(x, symbolic.N(3))), "x^(3/2)"},
		{"non-negative base", symbolic.PowOf(symbolic.SqrtOf(symbolic.AbsOf(x)), symbolic.N(2)), "abs(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("want %s, got %s", tt.want, got)
			}
		})
	}

	ev, err := symbolic.Compile(symbolic.SqrtOf(sq), "x")
	if err != nil {
		t.Fatal(err)
	}
	if got := ev.At(-3); got != 3 {
		t.Errorf("want 3, got %v", got)
	}
}

func TestFunc_ExpOfLnKeepsDomain(t *testing.T) {
	e := symbolic.ExpOf(symbolic.LnOf(x))
	if got := e.String(); got != "exp(ln(x))" {
		t.Errorf("want exp(ln(x)), got %s", got)
	}
	ev, err := symbolic.Compile(e, "x")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(ev.At(-1)) {
		t.Errorf("want NaN at -1, got %v", ev.At(-1))
	}
	if got := symbolic.ExpOf(symbolic.LnOf(symbolic.AbsOf(x))).String(); got != "abs(x)" {
		t.Errorf("want abs(x), got %s", got)
	}
}

func TestPow_EulerBaseBecomesExp(t *testing.T) {
	if got := symbolic.PowOf(symbolic.E(), x).String(); got != "exp(x)" {
		t.Errorf("want exp(x), got %s", got)
	}
}

func TestFunc_FoldsZero(t *testing.T) {
	if got := symbolic.SinOf(symbolic.N(0)).String(); got != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestFunc_LnOfNegativeDoesNotEvaluate(t *testing.T) {
	if _, ok := symbolic.LnOf(symbolic.N(-1)).Eval(); ok {
		t.Error("ln(-1) should not evaluate")
	}
}

func TestExpand_Square(t *testing.T) {
	e := symbolic.Expand(symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2)))
	if got := e.String(); got != "2*x + x^2 + 1" {
		t.Errorf("want '2*x + x^2 + 1', got %s", got)
	}
}

func TestSubAndEval(t *testing.T) {
	e := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x))
	v, ok := e.Sub("x", symbolic.N(2)).Eval()
	if !ok || v.String() != "10" {
		t.Errorf("want 10, got %v (ok=%v)", v, ok)
	}
}

func TestSortedSymbols(t *testing.T) {
	e := symbolic.MulOf(x, symbolic.SinOf(symbolic.S("y")))
	got := symbolic.SortedSymbols(e)
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("want [x y], got %v", got)
	}
}

func TestLaTeX_Fraction(t *testing.T) {
	e := symbolic.MulOf(symbolic.N(6), symbolic.PowOf(symbolic.SqrtOf(x), symbolic.N(-1)))
	if got := e.LaTeX(); got != `\frac{6}{\sqrt{x}}` {
		t.Errorf(`want \frac{6}{\sqrt{x}}, got %s`, got)
	}
}

// ============================================================
// Integration
// ============================================================

func TestIntegrate_Rules(t *testing.T) {
	tests := []struct {
		name string
		expr symbolic.Expr
		want string
	}{
		{"constant", symbolic.N(5), "5*x"},
		{"variable", x, "1/2*x^2"},
		{"inverse", symbolic.PowOf(x, symbolic.N(-1)), "ln(abs(x))"},
		{"cos", symbolic.CosOf(x), "sin(x)"},
		{"exp", symbolic.ExpOf(x), "exp(x)"},
		{"reciprocal sqrt", symbolic.MulOf(symbolic.N(6), symbolic.PowOf(symbolic.SqrtOf(x), symbolic.N(-1))), "12*x^(1/2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := symbolic.Integrate(tt.expr, "x")
			if !ok {
				t.Fatalf("integration of %s should succeed", tt.expr)
			}
			if got.String() != tt.want {
				t.Errorf("want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestIntegrate_ProductWithoutRule(t *testing.T) {
	if _, ok := symbolic.Integrate(symbolic.MulOf(x, symbolic.SinOf(x)), "x"); ok {
		t.Error("x*sin(x) has no rule and should report false")
	}
}

func TestDefiniteIntegral(t *testing.T) {
	pi := symbolic.Pi().Value()
	tests := []struct {
		name string
		expr symbolic.Expr
		a, b float64
		want float64
	}{
		{"reciprocal sqrt", symbolic.MulOf(symbolic.N(6), symbolic.PowOf(symbolic.SqrtOf(x), symbolic.N(-1))), 1, 4, 12},
		{"square", symbolic.PowOf(x, symbolic.N(2)), 0, 1, 1.0 / 3},
		{"identity", x, 0, 2, 2},
		{"sine", symbolic.SinOf(x), 0, pi, 2},
		{"linear argument", symbolic.SinOf(symbolic.MulOf(symbolic.N(2), x)), 0, pi / 2, 1},
		{"expanded product", symbolic.MulOf(x, symbolic.AddOf(x, symbolic.N(1))), 0, 3, 13.5},
		{"shifted reciprocal", symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(-1)), 0, 1, math.Ln2},
		{"sine squared", symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)), 0, pi, pi / 2},
		{"reversed bounds", x, 2, 0, -2},
		{"absolute value", symbolic.AbsOf(x), -1, 1, 1},
		{"log at the left end", symbolic.LnOf(x), 0, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := symbolic.DefiniteIntegral(tt.expr, "x", tt.a, tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if !near(got, tt.want) {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefiniteIntegral_ZeroLength(t *testing.T) {
	got, err := symbolic.DefiniteIntegral(symbolic.MulOf(x, symbolic.SinOf(x)), "x", 1, 1)
	if err != nil || got != 0 {
		t.Errorf("want 0, nil; got %v, %v", got, err)
	}
}

func TestDefiniteIntegral_NoClosedForm(t *testing.T) {
	_, err := symbolic.DefiniteIntegral(symbolic.MulOf(x, symbolic.SinOf(x)), "x", 0, 1)
	if !errors.Is(err, symbolic.ErrNoClosedForm) {
		t.Errorf("want ErrNoClosedForm, got %v", err)
	}
}

func TestDefiniteIntegral_UndefinedAtBound(t *testing.T) {
	_, err := symbolic.DefiniteIntegral(symbolic.PowOf(x, symbolic.N(-1)), "x", 0, 1)
	var evalErr *symbolic.EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("want *EvaluationError, got %v", err)
	}
	if evalErr.X != 0 {
		t.Errorf("want failing bound 0, got %v", evalErr.X)
	}
}

func TestDefiniteIntegral_InteriorPole(t *testing.T) {
	tests := []struct {
		name string
		expr symbolic.Expr
		a, b float64
		pole float64
	}{
		{"inverse square", symbolic.PowOf(x, symbolic.N(-2)), -1, 2, 0},
		{"inverse", symbolic.PowOf(x, symbolic.N(-1)), -1, 2, 0},
		{"reversed bounds", symbolic.PowOf(x, symbolic.N(-2)), 2, -1, 0},
		{"shifted", symbolic.PowOf(symbolic.AddOf(x, symbolic.N(-1)), symbolic.N(-2)), 0, 3, 1},
		{"secant squared", symbolic.PowOf(symbolic.SecOf(x), symbolic.N(2)), 0, 2, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := symbolic.DefiniteIntegral(tt.expr, "x", tt.a, tt.b)
			var evalErr *symbolic.EvaluationError
			if !errors.As(err, &evalErr) {
				t.Fatalf("want *EvaluationError, got %v, %v", got, err)
			}
			if math.Abs(evalErr.X-tt.pole) > 1e-9 {
				t.Errorf("want pole at %v, got %v", tt.pole, evalErr.X)
			}
		})
	}
}

// ============================================================
// Compilation
// ============================================================

func TestCompile_At(t *testing.T) {
	e := symbolic.MulOf(symbolic.N(6), symbolic.PowOf(symbolic.SqrtOf(x), symbolic.N(-1)))
	ev, err := symbolic.Compile(e, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got := ev.At(4); got != 3 {
		t.Errorf("want 3, got %v", got)
	}
	if got := ev.Map([]float64{1, 4}); !reflect.DeepEqual(got, []float64{6, 3}) {
		t.Errorf("want [6 3], got %v", got)
	}
}

func TestCompile_MatchesEval(t *testing.T) {
	e := symbolic.AddOf(
		symbolic.MulOf(symbolic.N(3), symbolic.PowOf(x, symbolic.N(3))),
		symbolic.CosOf(x),
		symbolic.ExpOf(symbolic.MulOf(symbolic.N(-1), x)),
		symbolic.Pi(),
	)
	ev, err := symbolic.Compile(e, "x")
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range []float64{-1.5, 0, 0.25, 2} {
		want, ok := e.Sub("x", symbolic.NFloat(at)).Eval()
		if !ok {
			t.Fatalf("eval at %v failed", at)
		}
		if !near(ev.At(at), want.Float64()) {
			t.Errorf("at %v: compiled %v, exact %v", at, ev.At(at), want.Float64())
		}
	}
}

func TestCompile_ForeignSymbol(t *testing.T) {
	_, err := symbolic.Compile(symbolic.AddOf(x, symbolic.S("y")), "x")
	var compileErr *symbolic.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("want *CompileError, got %v", err)
	}
	if compileErr.Expr != "y" {
		t.Errorf("want offending expr y, got %s", compileErr.Expr)
	}
}

func TestCompile_UnknownFunction(t *testing.T) {
	_, err := symbolic.Compile(symbolic.FuncOf("gamma", x), "x")
	var compileErr *symbolic.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("want *CompileError, got %v", err)
	}
}

func TestCompile_DomainGivesNaN(t *testing.T) {
	ev, err := symbolic.Compile(symbolic.LnOf(x), "x")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(ev.At(-1)) {
		t.Errorf("ln(-1) should be NaN, got %v", ev.At(-1))
	}
}

// ============================================================
// JSON
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	e := symbolic.AddOf(
		symbolic.MulOf(symbolic.N(3), symbolic.PowOf(x, symbolic.N(2))),
		symbolic.SinOf(x),
		symbolic.Pi(),
	)
	s, err := json.Marshal(symbolic.JSONTree(e))
	if err != nil {
		t.Fatal(err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(s, &data); err != nil {
		t.Fatal(err)
	}
	back, err := symbolic.FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e) {
		t.Errorf("round trip changed %s into %s", e, back)
	}
}

func TestFromJSON_UnknownType(t *testing.T) {
	if _, err := symbolic.FromJSON(map[string]interface{}{"type": "matrix"}); err == nil {
		t.Error("want error for unknown type")
	}
}
