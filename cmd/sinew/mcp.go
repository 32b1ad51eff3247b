package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/sinew/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(g *globalOptions) *cobra.Command {
	var (
		transport string
		port      int
	)
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the evaluator to AI agents as MCP tools: list_node_types,
evaluate_scene, solve_aim and reduce_keyframes.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport != "stdio" && transport != "sse" {
				return fmt.Errorf("unknown transport %q: want stdio or sse", transport)
			}
			// logs go to stderr; stdout carries JSON-RPC
			engine, logger, err := g.engine(cmd, g.cliOptions())
			if err != nil {
				return err
			}
			srv := mcp.NewServer(engine, logger)

			if transport == "stdio" {
				logger.Info("starting MCP server (stdio)")
				return srv.ServeStdio()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ServeSSE(ctx, port)
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport (stdio, sse)")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port for the SSE transport")
	return cmd
}
