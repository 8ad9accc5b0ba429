package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/birdwatcher/internal/archive"
	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/mailbox"
	"github.com/raoulx24/birdwatcher/internal/scheduler"
	"github.com/raoulx24/birdwatcher/internal/watcher"
	"github.com/raoulx24/birdwatcher/internal/worker"
)

func newScheduleCmd() *cobra.Command {
	var immediately bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run captures on the configured cron schedule until stopped",
		Long:  "Runs in the foreground. Triggers that fire while a capture is still running are coalesced into one pending capture. SIGHUP, or a config change when configReload is enabled, reloads the configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			o, gate, err := archive.FromConfig(cfg, log)
			if err != nil {
				return err
			}

			// Mailbox for capture jobs
			mb := mailbox.New[worker.Job]()

			w := worker.New(o, log, mb)

			sched, err := scheduler.New(cfg.Schedule.Cron, gate.Location().TZ, log, mb)
			if err != nil {
				return fmt.Errorf("%w: %w", config.ErrInvalid, err)
			}

			abs, err := filepath.Abs(configPath)
			if err != nil {
				return fmt.Errorf("%w: %w", config.ErrInvalid, err)
			}

			r := &reloader{path: abs, log: log, sched: sched, worker: w}

			// Enabling file watching takes a restart; SIGHUP always reloads.
			if cfg.ConfigReload.Enabled {
				r.watch = watcher.New(abs, cfg.ConfigReload, log, r.reload)
				go func() {
					if err := r.watch.Start(ctx); err != nil {
						log.Error("config watcher stopped", "error", err)
					}
				}()
			}

			// Reload on SIGHUP
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGHUP)
				defer signal.Stop(sigCh)

				for {
					select {
					case <-ctx.Done():
						return
					case <-sigCh:
						r.reload()
					}
				}
			}()

			if immediately {
				mb.Put(worker.Job{Trigger: time.Now(), Source: "startup"})
			}

			sched.Start()
			w.Start(ctx)

			<-sched.Stop().Done()
			log.Info("exit complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&immediately, "now", false, "Also capture once at startup")
	return cmd
}
