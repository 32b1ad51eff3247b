package main

import (
	"fmt"

	"github.com/aretw0/sinew/internal/cli"
	"github.com/aretw0/sinew/pkg/nodes/aim"
	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/spf13/cobra"
)

func newAimCmd() *cobra.Command {
	var (
		con, target, up []float64
		strict          bool
		output          string
	)
	cmd := &cobra.Command{
		Use:   "aim",
		Short: "Solve a single aim constraint",
		Long: `Orients an object at --con toward --aim, using --up to fix the roll, and
prints the basis vectors and the XYZ Euler rotation in degrees.`,
		Example: "  sinew aim --con 1,1,3 --aim 2,1,1 --up 2,10,1",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := vector("con", con)
			if err != nil {
				return err
			}
			pa, err := vector("aim", target)
			if err != nil {
				return err
			}
			pu, err := vector("up", up)
			if err != nil {
				return err
			}

			var opts []aim.Option
			if strict {
				opts = append(opts, aim.WithStrict())
			}
			sol, err := aim.SolvePositions(pc, pa, pu, opts...)
			if err != nil {
				return err
			}
			return cli.Write(cmd.OutOrStdout(), output, sol)
		},
	}
	cmd.Flags().Float64SliceVar(&con, "con", []float64{0, 0, 0}, "Constrained object position x,y,z")
	cmd.Flags().Float64SliceVar(&target, "aim", nil, "Aim target position x,y,z")
	cmd.Flags().Float64SliceVar(&up, "up", []float64{0, 1, 0}, "World-up reference position x,y,z")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on degenerate geometry instead of falling back")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format (yaml, json)")
	_ = cmd.MarkFlagRequired("aim")
	return cmd
}

func vector(name string, v []float64) (vecmath.Vector3, error) {
	if len(v) != 3 {
		return vecmath.Vector3{}, fmt.Errorf("--%s: want 3 components, got %d", name, len(v))
	}
	return vecmath.Vec3(v[0], v[1], v[2]), nil
}
