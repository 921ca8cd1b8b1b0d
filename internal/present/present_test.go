package present_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goquad/internal/present"
)

var sample = map[string]float64{
	"T_n": 12.118881, "M_n": 11.942058, "S_n": 12.011141,
	"E_T": -0.118881, "E_M": 0.057942, "E_S": -0.011141,
}

func TestParseFormat(t *testing.T) {
	f, err := present.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, present.FormatJSON, f)

	f, err = present.ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, present.FormatMarkdown, f)

	_, err = present.ParseFormat("xml")
	assert.Error(t, err)
}

func TestReport_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, present.New(&buf, present.FormatText).Report(sample))

	want := strings.Join([]string{
		"",
		"Results:",
		"Trapezoidal Rule Approximation (T_n): 12.118881",
		"Midpoint Rule Approximation (M_n): 11.942058",
		"Simpson's Rule Approximation (S_n): 12.011141",
		"Error in Trapezoidal Rule (E_T): -0.118881",
		"Error in Midpoint Rule (E_M): 0.057942",
		"Error in Simpson's Rule (E_S): -0.011141",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestReport_TextSkipsMissingErrors(t *testing.T) {
	var buf bytes.Buffer
	err := present.New(&buf, present.FormatText).Report(map[string]float64{"T_n": 2, "M_n": 2, "S_n": 2})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Simpson's Rule Approximation (S_n): 2.0")
	assert.NotContains(t, buf.String(), "Error in")
}

func TestReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, present.New(&buf, present.FormatJSON).Report(sample))

	var got map[string]float64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample, got)
}

func TestReport_MarkdownRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, present.New(&buf, present.FormatMarkdown).Report(sample))
	assert.Contains(t, buf.String(), "| Simpson's | 12.011141 | -0.011141 |")
}

func TestReport_MarkdownRendered(t *testing.T) {
	render := present.NewMarkdownRenderer()
	require.NotNil(t, render)

	var buf bytes.Buffer
	p := present.New(&buf, present.FormatMarkdown, present.WithMarkdownRenderer(render))
	require.NoError(t, p.Report(sample))
	assert.Contains(t, buf.String(), "Trapezoidal")
	assert.NotContains(t, buf.String(), "|---|")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, present.New(&buf, present.FormatText).Error(errors.New("n must be an even number for Simpson's Rule, got 3")))
	assert.Equal(t, "\nResults:\nn must be an even number for Simpson's Rule, got 3\n", buf.String())

	buf.Reset()
	require.NoError(t, present.New(&buf, present.FormatJSON).Error(errors.New("boom")))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "2.0", present.Number(2))
	assert.Equal(t, "0.0", present.Number(0))
	assert.Equal(t, "-0.001667", present.Number(-0.001667))
	assert.Equal(t, "0.333333", present.Number(0.333333))
}
