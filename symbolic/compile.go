package symbolic

// Evaluator is a compiled float64 form of an expression in one variable.
// It holds no mutable state and may be reused freely.
type Evaluator struct {
	fn evalFn
}

// Compile turns expr into an Evaluator over varName. It fails with a
// *CompileError when expr holds another free symbol or a function without
// a numeric implementation.
func Compile(expr Expr, varName string) (*Evaluator, error) {
	expr = expr.Simplify()
	fn, err := expr.compile(varName)
	if err != nil {
		return nil, err
	}
	return &Evaluator{fn: fn}, nil
}

// At evaluates the expression at x.
func (ev *Evaluator) At(x float64) float64 { return ev.fn(x) }

// Map evaluates the expression element-wise and returns a new slice.
func (ev *Evaluator) Map(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = ev.fn(x)
	}
	return out
}
