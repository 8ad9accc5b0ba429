package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raoulx24/birdwatcher/internal/archive"
)

func newReindexCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the indices from the pictures on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			o, _, err := archive.FromConfig(cfg, log)
			if err != nil {
				return err
			}

			report, err := o.Reindex(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range report.Drift {
				fmt.Fprintf(out, "%s (%s): +%d -%d\n", d.Index, d.State, len(d.Added), len(d.Removed))
			}
			for _, m := range report.Mismatches {
				fmt.Fprintf(out, "exif date %s differs from directory: %s\n", m.ExifDate, m.Path)
			}
			verb := "rebuilt"
			if dryRun {
				verb = "would rebuild"
			}
			fmt.Fprintf(out, "%d dates, %s %d indices\n", len(report.Dates), verb, len(report.Drift))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report drift without writing")
	return cmd
}
