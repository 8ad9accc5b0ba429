package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raoulx24/birdwatcher/internal/archive"
)

func newCaptureCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Take one picture if it is daylight",
		Long:  "Runs a single invocation, meant to be triggered by cron or a systemd timer. A nighttime skip exits 0 and prints \"skipped\".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			now, err := parseAt(at)
			if err != nil {
				return err
			}

			o, _, err := archive.FromConfig(cfg, log)
			if err != nil {
				return err
			}

			res, err := o.Run(cmd.Context(), now)
			if err != nil {
				return err
			}

			if res.Status == archive.Captured {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", res.Status, res.Path)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), res.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Capture time as RFC 3339 instead of now")
	return cmd
}
