package goquad

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/njchilds90/goquad/latex"
	"github.com/njchilds90/goquad/quadrature"
	"github.com/njchilds90/goquad/symbolic"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest is a named call with JSON-decoded parameters, as received
// over HTTP or MCP.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ToolParam describes one input of a tool. Type is a JSON Schema type.
type ToolParam struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

type Tool struct {
	Name        string
	Description string
	Params      []ToolParam
}

var integralParam = ToolParam{
	Name:        "integral",
	Type:        "string",
	Description: `Definite integral in LaTeX, e.g. \int_{1}^{4} \frac{6}{\sqrt{x}} dx`,
	Required:    true,
}

const maxDerivativeOrder = 10

// treeParam accepts the "result" of a previous call in place of expr.
var treeParam = ToolParam{
	Name:        "tree",
	Type:        "object",
	Description: `JSON expression tree, e.g. {"type": "pow", "base": {"type": "sym", "name": "x"}, "exp": {"type": "num", "value": "2"}}; used instead of expr`,
}

// Tools lists every tool HandleToolCall understands.
func Tools() []Tool {
	return []Tool{
		{
			Name:        "approximate_integral",
			Description: "Approximate a definite integral with the Trapezoidal, Midpoint and Simpson's rules and report signed errors against the exact value",
			Params: []ToolParam{
				integralParam,
				{Name: "n", Type: "integer", Description: "Number of subintervals (even)", Required: true},
				{Name: "precision", Type: "integer", Description: "Decimal places in the result (default 6)"},
				{Name: "require_exact", Type: "boolean", Description: "Fail when no exact value exists (default true)"},
			},
		},
		{
			Name:        "exact_integral",
			Description: "Compute the exact value of a definite integral from its antiderivative",
			Params:      []ToolParam{integralParam},
		},
		{
			Name:        "error_bounds",
			Description: "Worst-case error of each rule for n subintervals, from the maxima of |f''| and |f''''| on the interval",
			Params: []ToolParam{
				integralParam,
				{Name: "n", Type: "integer", Description: "Number of subintervals (even)", Required: true},
			},
		},
		{
			Name:        "derivative",
			Description: "Symbolic derivative of an expression given in LaTeX or as a JSON expression tree",
			Params: []ToolParam{
				{Name: "expr", Type: "string", Description: "Expression in LaTeX"},
				treeParam,
				{Name: "var", Type: "string", Description: "Differentiation variable", Required: true},
				{Name: "order", Type: "integer", Description: "Order of the derivative (default 1)"},
			},
		},
		{
			Name:        "antiderivative",
			Description: "Rule-based symbolic antiderivative of an expression given in LaTeX or as a JSON expression tree",
			Params: []ToolParam{
				{Name: "expr", Type: "string", Description: "Integrand in LaTeX"},
				treeParam,
				{Name: "var", Type: "string", Description: "Integration variable", Required: true},
			},
		},
		{
			Name:        "parse_latex",
			Description: "Parse a LaTeX expression into a JSON expression tree",
			Params: []ToolParam{
				{Name: "latex", Type: "string", Description: "LaTeX math fragment", Required: true},
			},
		},
	}
}

// HandleToolCall dispatches req and never panics on bad input; failures are
// reported in ToolResponse.Error.
func HandleToolCall(ctx context.Context, req ToolRequest, opts ...Option) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getInt := func(key string) (int, bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, false, nil
		}
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return 0, true, fmt.Errorf("param %s must be a number", key)
			}
			f = parsed
		default:
			return 0, true, fmt.Errorf("param %s must be a number", key)
		}
		if f != math.Trunc(f) {
			return 0, true, fmt.Errorf("param %s must be an integer", key)
		}
		if f < math.MinInt32 || f > math.MaxInt32 {
			return 0, true, fmt.Errorf("param %s is out of range: %g", key, f)
		}
		return int(f), true, nil
	}
	getExpr := func() (symbolic.Expr, error) {
		if v, ok := req.Params["tree"]; ok {
			tree, isObject := v.(map[string]interface{})
			if !isObject {
				return nil, fmt.Errorf("param tree must be an object")
			}
			return symbolic.FromJSON(tree)
		}
		src, err := getString("expr")
		if err != nil {
			return nil, err
		}
		return latex.Parse(src)
	}
	respond := func(e symbolic.Expr) ToolResponse {
		return ToolResponse{Result: symbolic.JSONTree(e), LaTeX: e.LaTeX(), String: e.String()}
	}

	switch req.Tool {
	case "approximate_integral":
		integral, err := getString("integral")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		n, ok, err := getInt("n")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if !ok {
			return ToolResponse{Error: "missing param: n"}
		}
		callOpts := append([]Option{}, opts...)
		p, ok, err := getInt("precision")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if ok {
			callOpts = append(callOpts, WithPrecision(p))
		}
		if v, present := req.Params["require_exact"]; present {
			b, isBool := v.(bool)
			if !isBool {
				return ToolResponse{Error: "param require_exact must be a boolean"}
			}
			callOpts = append(callOpts, WithRequireExact(b))
		}
		report, err := Approximate(ctx, integral, n, callOpts...)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		values := report.Map()
		return ToolResponse{
			Result: values,
			LaTeX:  report.Expr.LaTeX(),
			String: formatValues(values),
		}

	case "exact_integral":
		integral, err := getString("integral")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, anti, err := exactIntegral(integral)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{
			Result: map[string]interface{}{"value": v, "antiderivative": symbolic.JSONTree(anti)},
			LaTeX:  anti.LaTeX(),
			String: fmt.Sprintf("%.10g", v),
		}

	case "error_bounds":
		integral, err := getString("integral")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		n, ok, err := getInt("n")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if !ok {
			return ToolResponse{Error: "missing param: n"}
		}
		eb, err := ErrorBounds(ctx, integral, n, opts...)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if math.IsInf(eb.K2, 0) || math.IsInf(eb.K4, 0) {
			return ToolResponse{Error: "derivative is unbounded on the interval; no finite error bound"}
		}
		values := eb.Map(newOptions(opts).precision)
		return ToolResponse{Result: values, String: formatValues(values)}

	case "derivative":
		e, err := getExpr()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		order, ok, err := getInt("order")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if !ok {
			order = 1
		}
		if order < 1 || order > maxDerivativeOrder {
			return ToolResponse{Error: fmt.Sprintf("param order must be between 1 and %d, got %d", maxDerivativeOrder, order)}
		}
		return respond(symbolic.DiffN(e, v, order))

	case "antiderivative":
		e, err := getExpr()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		anti, ok := symbolic.Integrate(e, v)
		if !ok {
			return ToolResponse{Error: fmt.Sprintf("%v for %s", symbolic.ErrNoClosedForm, e)}
		}
		return respond(anti)

	case "parse_latex":
		src, err := getString("latex")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		e, err := latex.Parse(src)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(e)
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func exactIntegral(integral string) (float64, symbolic.Expr, error) {
	in, err := latex.Extract(integral)
	if err != nil {
		return 0, nil, err
	}
	a, err := latex.ParseLimit(in.Lower)
	if err != nil {
		return 0, nil, err
	}
	b, err := latex.ParseLimit(in.Upper)
	if err != nil {
		return 0, nil, err
	}
	e, err := latex.Parse(in.Body)
	if err != nil {
		return 0, nil, err
	}
	anti, ok := symbolic.Integrate(e, in.Var)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %w for %s", ErrExactUnavailable, symbolic.ErrNoClosedForm, e)
	}
	v, err := symbolic.DefiniteIntegral(e, in.Var, a, b)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrExactUnavailable, err)
	}
	return v, anti, nil
}

func formatValues(values map[string]float64) string {
	parts := make([]string, 0, len(values))
	for _, k := range quadrature.Keys {
		if v, ok := values[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%g", k, v))
		}
	}
	return strings.Join(parts, " ")
}

// ============================================================
// Schema
// ============================================================

// ToolSpec returns the JSON schema of Tools.
func ToolSpec() string {
	tools := make([]map[string]interface{}, 0, len(Tools()))
	for _, t := range Tools() {
		tools = append(tools, ts(t))
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(t Tool) map[string]interface{} {
	properties := map[string]interface{}{}
	required := []string{}
	for _, p := range t.Params {
		properties[p.Name] = map[string]interface{}{"type": p.Type, "description": p.Description}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]interface{}{
		"name":        t.Name,
		"description": t.Description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
