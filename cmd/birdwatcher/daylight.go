package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/daylight"
)

func newDaylightCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "daylight",
		Short: "Show civil dawn, dusk and the capture decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			now, err := parseAt(at)
			if err != nil {
				return err
			}

			loc, err := daylight.Resolve(cfg.Location)
			if err != nil {
				return fmt.Errorf("%w: %w", config.ErrInvalid, err)
			}
			gate := daylight.New(loc)
			w := gate.Window(now)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "location  %s (%.4f, %.4f) %s\n", loc.Name, loc.Latitude, loc.Longitude, loc.TZ)
			fmt.Fprintf(out, "date      %s\n", w.Date.Format(time.DateOnly))
			switch w.Polar {
			case daylight.AlwaysLight:
				fmt.Fprintln(out, "window    light all day")
			case daylight.AlwaysDark:
				fmt.Fprintln(out, "window    dark all day")
			default:
				fmt.Fprintf(out, "dawn      %s\n", w.Dawn.In(loc.TZ).Format(time.TimeOnly))
				fmt.Fprintf(out, "dusk      %s\n", w.Dusk.In(loc.TZ).Format(time.TimeOnly))
			}
			fmt.Fprintf(out, "at        %s\n", now.In(loc.TZ).Format(time.RFC3339))
			fmt.Fprintf(out, "capture   %t\n", w.Contains(now))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Instant to evaluate as RFC 3339 instead of now")
	return cmd
}
