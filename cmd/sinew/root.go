package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/sinew"
	"github.com/aretw0/sinew/internal/cli"
	"github.com/aretw0/sinew/internal/presentation/tui"
	"github.com/aretw0/sinew/pkg/scene"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	logLevel string
	logJSON  bool
}

func (g *globalOptions) cliOptions() cli.Options {
	return cli.Options{LogLevel: g.logLevel, LogJSON: g.logJSON}
}

// engine builds the logger (on the command's stderr) and an engine.
func (g *globalOptions) engine(cmd *cobra.Command, opts cli.Options) (*sinew.Engine, *slog.Logger, error) {
	logger, err := cli.NewLogger(cmd.ErrOrStderr(), opts)
	if err != nil {
		return nil, nil, err
	}
	eng, err := cli.CreateEngine(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	return eng, logger, nil
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "sinew",
		Short: "Sinew evaluates rigging node graphs",
		Long: `Sinew builds dependency graphs of rigging nodes (sine, aim constraint,
locator) from scene files, evaluates them lazily, and ships the curve export
and keyframe reduction tools that travel with them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Write logs as JSON")

	cmd.AddCommand(
		newTypesCmd(g),
		newEvalCmd(g),
		newGraphCmd(g),
		newValidateCmd(g),
		newAimCmd(),
		newCurvesCmd(g),
		newKeysCmd(g),
		newServeCmd(g),
		newMCPCmd(g),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadScene(path string) (*scene.Scene, error) {
	s, err := scene.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return s, nil
}

// isTTY reports whether the command writes to an interactive terminal.
func isTTY(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && tui.IsTerminal(f)
}
