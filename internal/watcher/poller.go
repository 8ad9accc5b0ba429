package watcher

import (
	"context"
	"time"
)

// StartPolling checks the file on a fixed interval until ctx is done.
func (w *Watcher) StartPolling(ctx context.Context) {
	w.mu.RLock()
	interval := w.interval
	w.mu.RUnlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.detect()
		case <-w.reset:
			w.mu.RLock()
			next := w.interval
			w.mu.RUnlock()
			if next != interval && next > 0 {
				interval = next
				ticker.Reset(interval)
				w.log.Debug("poll interval changed", "interval", interval)
			}
		}
	}
}
