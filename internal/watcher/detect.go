package watcher

import (
	"os"
)

// detect calls onChange if the file's modification time or size moved since
// the last look. A missing file is ignored until it reappears.
func (w *Watcher) detect() {
	w.mu.RLock()
	path := w.path
	lastMod := w.lastModTime
	lastSize := w.lastSize
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		w.log.Debug("config not readable", "path", path, "error", err)
		return
	}

	if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
		return
	}

	w.mu.Lock()
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()
	w.mu.Unlock()

	w.log.Info("config changed", "path", path)
	w.onChange()
}
