package main

import (
	"github.com/raoulx24/birdwatcher/internal/archive"
	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/logging"
	"github.com/raoulx24/birdwatcher/internal/scheduler"
	"github.com/raoulx24/birdwatcher/internal/watcher"
	"github.com/raoulx24/birdwatcher/internal/worker"
)

// reloader applies a re-read config file to the running daemon. A rejected
// config leaves everything as it was.
type reloader struct {
	path   string
	log    logging.Logger
	sched  *scheduler.Scheduler
	worker *worker.Worker
	watch  *watcher.Watcher // nil when file watching is off
}

func (r *reloader) reload() {
	cfg, err := config.Load(r.path)
	if err != nil {
		r.log.Error("config reload failed", "error", err)
		return
	}
	o, gate, err := archive.FromConfig(cfg, r.log)
	if err != nil {
		r.log.Error("config reload rejected", "error", err)
		return
	}
	if err := r.sched.Reschedule(cfg.Schedule.Cron, gate.Location().TZ); err != nil {
		r.log.Error("config reload rejected", "error", err)
		return
	}

	r.worker.UpdateRunner(o)
	if r.watch != nil {
		r.watch.UpdateConfig(cfg.ConfigReload)
	}
	r.log.Info("config reloaded", "root", cfg.PictureRoot, "location", gate.Location().Name)
}
