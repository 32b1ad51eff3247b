package main

import (
	"fmt"

	"github.com/aretw0/sinew/internal/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene>",
		Short: "Validate a scene file",
		Long: `Checks a scene against the registered node types without evaluating it:
unknown types, broken plugs, misdirected or doubly driven connections and
cycles. Nodes that no evaluate plug depends on are reported as warnings.`,
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

			if err := validator.ValidateScene(eng.Registry(), s); err != nil {
				return err
			}
			for _, n := range validator.Unreachable(s) {
				logger.Warn("node is not evaluated", "node", n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
			return nil
		},
	}
}
