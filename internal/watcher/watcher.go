// Package watcher notices changes to the config file and triggers a reload.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/fsprobe"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher observes one file and calls onChange when its content may have
// changed.
type Watcher struct {
	mu sync.RWMutex

	path     string
	interval time.Duration
	mode     string
	debounce time.Duration

	log logging.Logger

	lastModTime time.Time
	lastSize    int64

	onChange func()
	reset    chan struct{}
}

// New creates a watcher for the config file at path.
func New(path string, cfg config.ReloadConfig, log logging.Logger, onChange func()) *Watcher {
	w := &Watcher{
		path:     path,
		interval: cfg.PollInterval,
		mode:     cfg.Method,
		debounce: defaultDebounce,
		log:      log,
		onChange: onChange,
		reset:    make(chan struct{}, 1),
	}
	if info, err := os.Stat(path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}
	return w
}

// Start chooses the watching strategy and blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := filepath.Dir(w.path)
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto", "":
		res := fsprobe.Probe(dir)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, polling config", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
