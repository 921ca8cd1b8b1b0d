package goquad_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goquad"
	"github.com/njchilds90/goquad/internal/logging"
	"github.com/njchilds90/goquad/latex"
	"github.com/njchilds90/goquad/quadrature"
	"github.com/njchilds90/goquad/symbolic"
)

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		integral string
		n        int
		want     map[string]float64
	}{
		{
			name:     "reciprocal square root",
			integral: `\int_{1}^{4} \frac{6}{\sqrt{x}} dx`,
			n:        4,
			want: map[string]float64{
				"T_n": 12.118881, "M_n": 11.942058, "S_n": 12.011141,
				"E_T": -0.118881, "E_M": 0.057942, "E_S": -0.011141,
			},
		},
		{
			name:     "square",
			integral: `\int_{0}^{1} x^2 dx`,
			n:        10,
			want: map[string]float64{
				"T_n": 0.335, "M_n": 0.3325, "S_n": 0.333333,
				"E_T": -0.001667, "E_M": 0.000833, "E_S": 0,
			},
		},
		{
			name:     "identity",
			integral: `\int_{0}^{2} x dx`,
			n:        2,
			want: map[string]float64{
				"T_n": 2, "M_n": 2, "S_n": 2,
				"E_T": 0, "E_M": 0, "E_S": 0,
			},
		},
		{
			name:     "square root of a square",
			integral: `\int_{-1}^{1} \sqrt{x^2} dx`,
			n:        4,
			want: map[string]float64{
				"T_n": 1, "M_n": 1, "S_n": 1,
				"E_T": 0, "E_M": 0, "E_S": 0,
			},
		},
		{
			name:     "sine over pi",
			integral: `\\int_{0}^{\pi} \sin(t) \, dt`,
			n:        4,
			want: map[string]float64{
				"T_n": 1.896119, "M_n": 2.052344, "S_n": 2.00456,
				"E_T": 0.103881, "E_M": -0.052344, "E_S": -0.00456,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := goquad.Evaluate(context.Background(), tt.integral, tt.n)
			require.NotContains(t, out, "error")
			require.Len(t, out, 6)
			for key, want := range tt.want {
				got, ok := out[key].(float64)
				require.True(t, ok, key)
				assert.InDelta(t, want, got, 1.5e-6, key)
			}
		})
	}
}

func TestEvaluate_ErrorKey(t *testing.T) {
	tests := []struct {
		name     string
		integral string
		n        int
		contains string
	}{
		{"odd n", `\int_{0}^{1} x^2 dx`, 3, "even"},
		{"malformed", `x^2`, 4, "invalid LaTeX integral format"},
		{"bad body", `\int_{0}^{1} x + dx`, 4, "failed to parse the LaTeX string"},
		{"no closed form", `\int_{0}^{1} x \sin x dx`, 4, "could not compute the exact integral"},
		{"pole inside the interval", `\int_{-1}^{2} \frac{1}{x^2} dx`, 4, "could not compute the exact integral"},
		{"too many subintervals", `\int_{0}^{1} x^2 dx`, 2_000_000, "n must be at most 1000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := goquad.Evaluate(context.Background(), tt.integral, tt.n)
			require.Len(t, out, 1)
			msg, ok := out["error"].(string)
			require.True(t, ok)
			assert.Contains(t, msg, tt.contains)
		})
	}
}

func TestApproximate_TypedErrors(t *testing.T) {
	ctx := context.Background()

	_, err := goquad.Approximate(ctx, "not an integral", 4)
	var extractErr *latex.ExtractionError
	assert.ErrorAs(t, err, &extractErr)

	_, err = goquad.Approximate(ctx, `\int_{0}^{1} \frac{1}{ dx`, 4)
	var buildErr *latex.BuildError
	assert.ErrorAs(t, err, &buildErr)

	_, err = goquad.Approximate(ctx, `\int_{0}^{1} x y dx`, 4)
	var compileErr *symbolic.CompileError
	assert.ErrorAs(t, err, &compileErr)

	_, err = goquad.Approximate(ctx, `\int_{0}^{1} x^2 dx`, 5)
	var countErr *quadrature.InvalidSubintervalCountError
	assert.ErrorAs(t, err, &countErr)

	_, err = goquad.Approximate(ctx, `\int_{0}^{1} x \sin x dx`, 4)
	assert.ErrorIs(t, err, goquad.ErrExactUnavailable)
	assert.ErrorIs(t, err, symbolic.ErrNoClosedForm)
}

func TestApproximate_InteriorPole(t *testing.T) {
	_, err := goquad.Approximate(context.Background(), `\int_{-1}^{2} \frac{1}{x^2} dx`, 4)
	require.ErrorIs(t, err, goquad.ErrExactUnavailable)
	var evalErr *symbolic.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.InDelta(t, 0, evalErr.X, 1e-9)

	report, err := goquad.Approximate(context.Background(), `\int_{-1}^{2} \frac{1}{x^2} dx`, 4,
		goquad.WithRequireExact(false))
	require.NoError(t, err)
	assert.False(t, report.Result.Exact.Known)
}

func TestApproximate_MaxSubintervals(t *testing.T) {
	ctx := context.Background()
	_, err := goquad.Approximate(ctx, `\int_{0}^{1} x^2 dx`, 12, goquad.WithMaxSubintervals(10))
	var countErr *quadrature.InvalidSubintervalCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 10, countErr.Max)

	_, err = goquad.ErrorBounds(ctx, `\int_{0}^{1} x^2 dx`, 12, goquad.WithMaxSubintervals(10))
	require.ErrorAs(t, err, &countErr)

	_, err = goquad.Approximate(ctx, `\int_{0}^{1} x^2 dx`, 10, goquad.WithMaxSubintervals(10))
	require.NoError(t, err)
}

func TestApproximate_DomainError(t *testing.T) {
	// The exact value exists as a limit but ln is undefined at the left end.
	_, err := goquad.Approximate(context.Background(), `\int_{0}^{1} \ln x dx`, 4)

	var domainErr *quadrature.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 0.0, domainErr.X)
	assert.True(t, math.IsInf(domainErr.Value, -1))
}

func TestApproximate_WithoutExact(t *testing.T) {
	report, err := goquad.Approximate(context.Background(), `\int_{0}^{1} x \sin x dx`, 4,
		goquad.WithRequireExact(false))
	require.NoError(t, err)
	assert.False(t, report.Result.Exact.Known)

	out := report.Map()
	assert.Len(t, out, 3)
	assert.InDelta(t, math.Sin(1)-math.Cos(1), out["S_n"], 1e-3)
}

func TestApproximate_Precision(t *testing.T) {
	report, err := goquad.Approximate(context.Background(), `\int_{1}^{4} \frac{6}{\sqrt{x}} dx`, 4,
		goquad.WithPrecision(2))
	require.NoError(t, err)
	assert.Equal(t, 12.12, report.Map()["T_n"])
	assert.InDelta(t, 12.118881, report.Result.Trapezoidal, 1e-6)
}

func TestApproximate_LimitsUseGrammar(t *testing.T) {
	report, err := goquad.Approximate(context.Background(), `\int_{-\frac{\pi}{2}}^{\frac{\pi}{2}} \cos x dx`, 8)
	require.NoError(t, err)
	assert.InDelta(t, -math.Pi/2, report.Bounds.Lower, 1e-15)
	assert.InDelta(t, 2, report.Result.Exact.Value, 1e-12)
}

func TestApproximate_LogsExtractedFields(t *testing.T) {
	var buf bytes.Buffer
	_, err := goquad.Approximate(context.Background(), `\int_{1}^{4} \frac{6}{\sqrt{x}} dx`, 4,
		goquad.WithLogger(logging.NewWriter(&buf, slog.LevelDebug)))
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "lower=1")
	assert.Contains(t, logs, "upper=4")
	assert.Contains(t, logs, "variable=x")
}

func TestApproximate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := goquad.Approximate(ctx, `\int_{0}^{1} x dx`, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestErrorBounds(t *testing.T) {
	eb, err := goquad.ErrorBounds(context.Background(), `\int_{1}^{4} \frac{6}{\sqrt{x}} dx`, 4)
	require.NoError(t, err)

	// f'' = 4.5 x^(-5/2) and f'''' = 39.375 x^(-9/2), both largest at x = 1
	assert.InDelta(t, 4.5, eb.K2, 1e-9)
	assert.InDelta(t, 39.375, eb.K4, 1e-9)
	assert.InDelta(t, 4.5*27/(12*16), eb.Trapezoidal, 1e-9)
	assert.InDelta(t, 39.375*243/(180*256), eb.Simpson, 1e-9)

	report, err := goquad.Approximate(context.Background(), `\int_{1}^{4} \frac{6}{\sqrt{x}} dx`, 4)
	require.NoError(t, err)
	assert.LessOrEqual(t, math.Abs(report.Result.ErrSimpson), eb.Simpson)
	assert.LessOrEqual(t, math.Abs(report.Result.ErrTrapezoidal), eb.Trapezoidal)
}

func TestErrorBounds_Unbounded(t *testing.T) {
	eb, err := goquad.ErrorBounds(context.Background(), `\int_{0}^{1} \ln x dx`, 4)
	require.NoError(t, err)
	assert.True(t, math.IsInf(eb.Trapezoidal, 1))
}

func TestErrorBounds_Errors(t *testing.T) {
	_, err := goquad.ErrorBounds(context.Background(), `\int_{0}^{1} x^2 dx`, 5)
	var countErr *quadrature.InvalidSubintervalCountError
	assert.ErrorAs(t, err, &countErr)

	_, err = goquad.ErrorBounds(context.Background(), `not an integral`, 4)
	var extractErr *latex.ExtractionError
	assert.ErrorAs(t, err, &extractErr)
}
