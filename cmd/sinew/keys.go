package main

import (
	"github.com/aretw0/sinew/internal/cli"
	"github.com/aretw0/sinew/pkg/keyframes"
	"github.com/spf13/cobra"
)

func newKeysCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Animation curve utilities",
	}
	cmd.AddCommand(newKeysReduceCmd(g))
	return cmd
}

func newKeysReduceCmd(g *globalOptions) *cobra.Command {
	var (
		ids     []string
		epsilon float64
		output  string
	)
	cmd := &cobra.Command{
		Use:   "reduce <scene>",
		Short: "Remove redundant keys from animation curves",
		Long: `Drops every key of the scene's animation curves (all of them, or those
named with --curve) that linear interpolation between its surviving
neighbours reproduces within --epsilon, and prints kept and removed keys
per curve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			logger, err := cli.NewLogger(cmd.ErrOrStderr(), g.cliOptions())
			if err != nil {
				return err
			}
			host, err := s.Host()
			if err != nil {
				return err
			}

			r := &keyframes.Reducer{Store: host, Logger: logger}
			results, reduceErr := r.ReduceAll(cmd.Context(), ids, epsilon)
			if len(results) > 0 {
				if err := cli.Write(cmd.OutOrStdout(), output, results); err != nil {
					return err
				}
			}
			return reduceErr
		},
	}
	cmd.Flags().StringArrayVar(&ids, "curve", nil, "Animation curve to reduce (repeatable)")
	cmd.Flags().Float64VarP(&epsilon, "epsilon", "e", 0.001, "Largest value error a removed key may introduce")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format (yaml, json)")
	return cmd
}
