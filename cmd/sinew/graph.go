package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sinew/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(g *globalOptions) *cobra.Command {
	var (
		eval  bool
		plugs []string
	)
	cmd := &cobra.Command{
		Use:   "graph <scene>",
		Short: "Export the node graph visualization",
		Long: `Builds the graph of a scene file and outputs a Mermaid diagram (graph LR).
With --eval the plugs are read first and nodes are coloured by dirty state,
with the owner of the last plug highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			eng, logger, err := g.engine(cmd, g.cliOptions())
			if err != nil {
				return err
			}

			gr, err := eng.Build(cmd.Context(), s)
			if err != nil {
				return err
			}

			var overlay *graph.Overlay
			if eval {
				if len(plugs) == 0 {
					plugs = s.Evaluate
				}
				overlay = &graph.Overlay{Dirty: true}
				for _, p := range plugs {
					if _, err := gr.Evaluate(cmd.Context(), p); err != nil {
						logger.Warn("plug evaluation failed", "plug", p, "err", err)
						continue
					}
					overlay.Current, _, _ = strings.Cut(p, ".")
				}
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(gr.Inspect(), overlay))
			return err
		},
	}
	cmd.Flags().BoolVar(&eval, "eval", false, "Evaluate plugs and overlay the dirty state")
	cmd.Flags().StringArrayVarP(&plugs, "plug", "p", nil, "Plug to read with --eval (repeatable)")
	return cmd
}
