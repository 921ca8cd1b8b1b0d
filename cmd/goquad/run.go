package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/njchilds90/goquad"
	"github.com/njchilds90/goquad/internal/present"
)

// errReported marks a failure that was already printed to the user.
var errReported = errors.New("error already reported")

const (
	integralPrompt = `Enter the definite integral in LaTeX format (e.g., \int_{1}^{4} \frac{6}{\sqrt{x}} dx): `
	countPrompt    = "Enter the number of subintervals (even number for Simpson's rule): "
)

func newRunCmd(a *app) *cobra.Command {
	var (
		integral     string
		n            int
		format       string
		precision    int
		requireExact bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Approximate one definite integral",
		Long: `Approximates one definite integral and prints the Trapezoidal, Midpoint and
Simpson's rule values with their errors. Without --integral the integral
(and, without -n, the number of subintervals) is read from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := present.ParseFormat(format)
			if err != nil {
				return err
			}

			opts := a.options()
			if cmd.Flags().Changed("precision") {
				opts = append(opts, goquad.WithPrecision(precision))
			}
			if cmd.Flags().Changed("require-exact") {
				opts = append(opts, goquad.WithRequireExact(requireExact))
			}

			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("integral") {
				fmt.Fprintln(out, "Numerical Integration Approximator")
				r := bufio.NewReader(cmd.InOrStdin())
				if integral, err = promptLine(r, out, integralPrompt); err != nil {
					return err
				}
				if !cmd.Flags().Changed("subintervals") {
					line, err := promptLine(r, out, countPrompt)
					if err != nil {
						return err
					}
					if n, err = strconv.Atoi(line); err != nil {
						fmt.Fprintln(out, "Error: n must be an integer.")
						return errReported
					}
				}
			} else if !cmd.Flags().Changed("subintervals") {
				n = a.cfg.Subintervals
			}

			p := newPrinter(out, f)
			report, err := goquad.Approximate(cmd.Context(), integral, n, opts...)
			if err != nil {
				a.logger.Debug("approximation failed", "error", err)
				if perr := p.Error(err); perr != nil {
					return perr
				}
				return errReported
			}
			return p.Report(report.Map())
		},
	}

	cmd.Flags().StringVar(&integral, "integral", "", `Definite integral in LaTeX, e.g. \int_{0}^{1} x^2 dx`)
	cmd.Flags().IntVarP(&n, "subintervals", "n", goquad.DefaultSubintervals, "Number of subintervals (even; defaults to subintervals from config)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or markdown")
	cmd.Flags().IntVar(&precision, "precision", goquad.DefaultPrecision, "Decimal places in the output")
	cmd.Flags().BoolVar(&requireExact, "require-exact", true, "Fail when the exact integral cannot be computed")
	return cmd
}

func promptLine(r *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// newPrinter enables colour and rendered markdown only on a terminal.
func newPrinter(out io.Writer, f present.Format) *present.Printer {
	tty := false
	if file, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(file.Fd()))
	}
	opts := []present.Option{present.WithColor(tty)}
	if tty && f == present.FormatMarkdown {
		opts = append(opts, present.WithMarkdownRenderer(present.NewMarkdownRenderer()))
	}
	return present.New(out, f, opts...)
}
