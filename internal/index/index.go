// Package index maintains small JSON-array indices on disk: a sorted,
// de-duplicated set of strings per file. It backs both the global list of
// capture dates and the per-date list of picture filenames.
//
// Updates are read-modify-write on the open file. A file that is missing or
// no longer parses is rebuilt from the entry being added.
package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
)

// State tags the outcome of loading an index file.
type State int

const (
	Absent State = iota
	Loaded
	Corrupt
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Loaded:
		return "loaded"
	case Corrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is a loaded index. Entries is only meaningful when State is Loaded.
type Result struct {
	State   State
	Entries []string
}

// Contains reports whether entry is present in a loaded index.
func (r Result) Contains(entry string) bool {
	return r.State == Loaded && slices.Contains(r.Entries, entry)
}

// Read loads the index at path without modifying it. Only unexpected I/O
// errors are returned; missing and malformed files are reported through State.
func Read(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{State: Absent}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("reading index %s: %w", path, err)
	}
	return decode(data), nil
}

func decode(data []byte) Result {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Result{State: Corrupt}
	}

	var entries []string
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return Result{State: Corrupt}
	}
	if entries == nil {
		entries = []string{}
	}
	return Result{State: Loaded, Entries: entries}
}

// encode returns the canonical on-disk form: a compact JSON array, sorted,
// without duplicates.
func encode(entries []string) ([]byte, error) {
	return json.Marshal(normalize(entries))
}

func normalize(entries []string) []string {
	out := slices.Clone(entries)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// readOpen loads the index from an already open file positioned anywhere.
func readOpen(f *os.File, created bool) (Result, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Result{}, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return Result{}, err
	}
	if created && len(data) == 0 {
		return Result{State: Absent}, nil
	}
	return decode(data), nil
}

// overwrite replaces the whole content of f with data, leaving no stale
// trailing bytes from a longer previous version.
func overwrite(f *os.File, data []byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Truncate(int64(len(data))); err != nil {
		return err
	}
	return f.Sync()
}
