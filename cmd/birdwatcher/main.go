package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

const (
	exitFailure = 1
	exitConfig  = 2
)

var (
	configPath string
	envFile    string
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, config.ErrInvalid) {
			return exitConfig
		}
		return exitFailure
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "birdwatcher",
		Short:         "Takes daylight pictures and archives them by date",
		Long:          "birdwatcher takes a still picture when there is daylight and files it under <root>/<YYYYMMDD>/, keeping JSON indices of dates and pictures.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the config")

	root.AddCommand(
		newCaptureCmd(),
		newDaylightCmd(),
		newScheduleCmd(),
		newReindexCmd(),
	)
	return root
}

// loadConfig reads the env file and config and builds the logger.
func loadConfig() (*config.Config, logging.Logger, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	return cfg, logging.New(os.Stderr, cfg.Logging), nil
}

// parseAt returns now, or the RFC 3339 instant given by --at.
func parseAt(at string) (time.Time, error) {
	if at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t, nil
}
