// Package fsprobe checks directories before they are relied upon: whether
// birdwatcher can write into them, and whether fsnotify delivers events there.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Result reports whether fsnotify is usable and why.
type Result struct {
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

// Writable checks, without writing anything, that dir either is a writable
// directory or could be created below its nearest existing ancestor.
func Writable(dir string) error {
	existing, info, err := nearestExisting(dir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", existing)
	}
	if err := canWrite(existing); err != nil {
		return fmt.Errorf("%s is not writable: %w", existing, err)
	}
	return nil
}

// nearestExisting walks up from path to the first entry that exists.
func nearestExisting(path string) (string, os.FileInfo, error) {
	p := filepath.Clean(path)
	for {
		info, err := os.Stat(p)
		if err == nil {
			return p, info, nil
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", nil, err
		}
		p = parent
	}
}

// Probe tests whether fsnotify reliably reports rename events in dir. Config
// editors usually save by writing a temp file and renaming it.
func Probe(dir string) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return Result{false, fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return Result{false, "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Result{false, fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return Result{false, fmt.Sprintf("cannot watch directory: %v", err)}
	}

	tmp, err := os.CreateTemp(dir, ".fsprobe_tmp-*")
	if err != nil {
		return Result{false, fmt.Sprintf("cannot create temp file: %v", err)}
	}
	tmp.Close()
	final := tmp.Name() + ".final"

	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return Result{false, fmt.Sprintf("rename failed: %v", err)}
	}
	defer os.Remove(final)

	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case ev := <-w.Events:
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return Result{true, ""}
			}
		case err := <-w.Errors:
			return Result{false, fmt.Sprintf("watch error: %v", err)}
		case <-timeout:
			return Result{false, "no events received (rename not reported)"}
		}
	}
}
