package present

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/njchilds90/goquad/quadrature"
)

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or markdown)", s)
}

var labels = map[string]string{
	quadrature.KeyTrapezoidal:    "Trapezoidal Rule Approximation (T_n):",
	quadrature.KeyMidpoint:       "Midpoint Rule Approximation (M_n):",
	quadrature.KeySimpson:        "Simpson's Rule Approximation (S_n):",
	quadrature.KeyErrTrapezoidal: "Error in Trapezoidal Rule (E_T):",
	quadrature.KeyErrMidpoint:    "Error in Midpoint Rule (E_M):",
	quadrature.KeyErrSimpson:     "Error in Simpson's Rule (E_S):",
}

// Printer writes reports in one format.
type Printer struct {
	w        io.Writer
	format   Format
	color    bool
	markdown func(string) (string, error)
}

type Option func(*Printer)

// WithColor enables ANSI colors in text output.
func WithColor(on bool) Option {
	return func(p *Printer) { p.color = on }
}

// WithMarkdownRenderer renders markdown output before writing it. Without
// one, raw markdown is written.
func WithMarkdownRenderer(render func(string) (string, error)) Option {
	return func(p *Printer) { p.markdown = render }
}

func New(w io.Writer, format Format, opts ...Option) *Printer {
	p := &Printer{w: w, format: format}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewMarkdownRenderer returns a glamour renderer that picks a light or dark
// style from the terminal.
func NewMarkdownRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return nil
	}
	return r.Render
}

// Report writes the values of a finished approximation. Missing error keys
// are skipped.
func (p *Printer) Report(values map[string]float64) error {
	switch p.format {
	case FormatJSON:
		return p.json(values)
	case FormatMarkdown:
		return p.render(markdownTable(values))
	}
	return p.text(values)
}

// Error writes a failed request in the same format as Report.
func (p *Printer) Error(err error) error {
	switch p.format {
	case FormatJSON:
		return p.json(map[string]string{"error": err.Error()})
	case FormatMarkdown:
		return p.render("**Error:** " + err.Error() + "\n")
	}
	msg := err.Error()
	if p.color {
		msg = termenv.String(msg).Foreground(termenv.ColorProfile().Color("#f87171")).String()
	}
	_, werr := fmt.Fprintf(p.w, "\nResults:\n%s\n", msg)
	return werr
}

func (p *Printer) text(values map[string]float64) error {
	var sb strings.Builder
	header := "Results:"
	if p.color {
		header = termenv.String(header).Bold().String()
	}
	sb.WriteString("\n" + header + "\n")
	for _, key := range quadrature.Keys {
		v, ok := values[key]
		if !ok {
			continue
		}
		num := Number(v)
		if p.color {
			num = termenv.String(num).Foreground(termenv.ColorProfile().Color(valueColor(key))).String()
		}
		sb.WriteString(labels[key] + " " + num + "\n")
	}
	_, err := io.WriteString(p.w, sb.String())
	return err
}

func valueColor(key string) string {
	if strings.HasPrefix(key, "E_") {
		return "#fbbf24"
	}
	return "#34d399"
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) render(md string) error {
	out := md
	if p.markdown != nil {
		rendered, err := p.markdown(md)
		if err != nil {
			return err
		}
		out = rendered
	}
	_, err := io.WriteString(p.w, out)
	return err
}

func markdownTable(values map[string]float64) string {
	rows := []struct{ name, approx, err string }{
		{"Trapezoidal", quadrature.KeyTrapezoidal, quadrature.KeyErrTrapezoidal},
		{"Midpoint", quadrature.KeyMidpoint, quadrature.KeyErrMidpoint},
		{"Simpson's", quadrature.KeySimpson, quadrature.KeyErrSimpson},
	}
	var sb strings.Builder
	sb.WriteString("| Rule | Approximation | Error |\n|---|---:|---:|\n")
	for _, r := range rows {
		errCell := "n/a"
		if v, ok := values[r.err]; ok {
			errCell = Number(v)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", r.name, Number(values[r.approx]), errCell)
	}
	return sb.String()
}

// Number formats v in the shortest form that round-trips, keeping a
// trailing ".0" on whole numbers.
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !math.IsInf(v, 0) && !math.IsNaN(v) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
