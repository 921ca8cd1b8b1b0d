package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/njchilds90/goquad"
	"github.com/njchilds90/goquad/internal/config"
	"github.com/njchilds90/goquad/internal/logging"
)

// app holds state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "goquad",
		Short: "Numerical integration of LaTeX definite integrals",
		Long: `goquad approximates a definite integral written in LaTeX with the
Trapezoidal, Midpoint and Simpson's rules and reports each rule's error
against the exact value.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "goquad.yaml", "Path to the config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log_level)")

	root.AddCommand(newRunCmd(a), newServeCmd(a), newMCPCmd(a), newVersionCmd())
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
	return nil
}

// options turns the loaded config into pipeline options.
func (a *app) options() []goquad.Option {
	return []goquad.Option{
		goquad.WithLogger(a.logger),
		goquad.WithPrecision(a.cfg.Precision),
		goquad.WithRequireExact(a.cfg.RequireExact),
		goquad.WithMaxSubintervals(a.cfg.MaxSubintervals),
	}
}
