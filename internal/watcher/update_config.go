package watcher

import (
	"github.com/raoulx24/birdwatcher/internal/config"
)

// UpdateConfig applies reload settings from a freshly loaded config. A
// running poller switches to the new interval at once; a new method takes
// effect on the next Start.
func (w *Watcher) UpdateConfig(cfg config.ReloadConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.interval = cfg.PollInterval
	w.mode = cfg.Method

	select {
	case w.reset <- struct{}{}:
	default:
	}
}
