package main

import (
	"fmt"

	"github.com/aretw0/sinew/internal/cli"
	"github.com/aretw0/sinew/internal/presentation/tui"
	"github.com/aretw0/sinew/pkg/registry"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/spf13/cobra"
)

func newTypesCmd(g *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "types [name]",
		Short: "Describe the registered node types",
		Long: `Lists every registered node type with its attributes. The default
markdown output is rendered for the terminal when stdout is a TTY.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := g.engine(cmd, g.cliOptions())
			if err != nil {
				return err
			}

			defs := eng.Registry().Types()
			if len(args) == 1 {
				def, err := eng.Registry().Lookup(args[0])
				if err != nil {
					return err
				}
				defs = []*registry.Definition{def}
			}

			switch output {
			case "json", "yaml":
				schemas := make([]*schema.Schema, len(defs))
				for i, d := range defs {
					schemas[i] = d.Schema
				}
				return cli.Write(cmd.OutOrStdout(), output, schemas)
			case "markdown":
				md := tui.TypesMarkdown(defs)
				if isTTY(cmd) {
					render, err := tui.NewRenderer(100)
					if err == nil {
						if out, err := render(md); err == nil {
							md = out
						}
					}
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			return fmt.Errorf("unknown output %q: want markdown, json or yaml", output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "markdown", "Output format (markdown, json, yaml)")
	return cmd
}
