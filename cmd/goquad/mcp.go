package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/goquad/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the goquad tools to AI agents over MCP.

Supported transports:
- stdio (default): standard input/output, for local process integration.
- sse: Server-Sent Events over HTTP, for remote agents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("transport") {
				a.cfg.MCP.Transport = transport
			}
			if cmd.Flags().Changed("port") {
				a.cfg.MCP.Port = port
			}

			srv := mcpserver.New(version, a.logger, a.options()...)
			switch a.cfg.MCP.Transport {
			case "stdio":
				a.logger.Info("starting goquad MCP server (stdio)")
				return srv.ServeStdio()
			case "sse":
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return srv.ServeSSE(ctx, a.cfg.MCP.Port)
			default:
				return fmt.Errorf("unknown transport %q (supported: stdio, sse)", a.cfg.MCP.Transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport: stdio or sse")
	cmd.Flags().IntVar(&port, "port", 8081, "Port for the sse transport")
	return cmd
}
