package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sinew"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sinew",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sinew version %s\n", strings.TrimSpace(sinew.Version))
		},
	}
}
