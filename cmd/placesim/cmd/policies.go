package cmd

import (
	"fmt"

	"placesim/internal/scheduler"
	"placesim/internal/scheduler/ordering"

	"github.com/spf13/cobra"
)

func NewCmdPolicies() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the queue and node policies.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Queue policies:")
			for _, p := range ordering.All() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "Node policies:")
			for _, p := range scheduler.AllPlacementPolicies() {
				fmt.Fprintf(out, "  %s\n", p)
			}
		},
	}
}
