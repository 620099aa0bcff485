package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the container states mirrored in etcd",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		records, err := application.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("read status: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "HOST\tCONTAINER\tSTATE\tUPDATED")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Hostname, rec.ContainerName, rec.State, rec.Updated.Format(time.RFC3339))
		}
		return w.Flush()
	},
}
