package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List containers known to the supervisor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		listing, err := application.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list containers: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CONTAINER\tSTATE")
		for _, name := range listing.Running {
			fmt.Fprintf(w, "%s\t%s\n", name, domain.StateRunning)
		}
		for _, name := range listing.Frozen {
			fmt.Fprintf(w, "%s\t%s\n", name, domain.StateFrozen)
		}
		for _, name := range listing.Stopped {
			fmt.Fprintf(w, "%s\t%s\n", name, domain.StateStopped)
		}
		return w.Flush()
	},
}
