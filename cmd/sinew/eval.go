package main

import (
	"fmt"

	"github.com/aretw0/sinew/internal/cli"
	"github.com/spf13/cobra"
)

func newEvalCmd(g *globalOptions) *cobra.Command {
	var (
		plugs  []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "eval <scene>",
		Short: "Evaluate plugs of a scene file",
		Long: `Builds the graph described by a YAML, JSON or HCL scene file and reads
each plug given with --plug, or the scene's own evaluate list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			eng, _, err := g.engine(cmd, g.cliOptions())
			if err != nil {
				return err
			}

			ev, err := eng.Evaluate(cmd.Context(), s, plugs...)
			if err != nil {
				return err
			}
			if err := cli.Write(cmd.OutOrStdout(), output, ev); err != nil {
				return err
			}
			if len(ev.Errors) > 0 {
				return fmt.Errorf("%d plug(s) could not be evaluated", len(ev.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&plugs, "plug", "p", nil, "Plug to read as node.attribute (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format (yaml, json)")
	return cmd
}
