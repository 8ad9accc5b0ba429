package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Store applies updates to index files. Updates to the same path from one
// process are serialized; across processes an advisory file lock is taken
// when locking is enabled.
type Store struct {
	fileLock bool
	paths    keyedMutex
}

// NewStore returns a Store. With fileLock set, every update holds an
// exclusive flock on the index file for the read-modify-write window.
func NewStore(fileLock bool) *Store {
	return &Store{fileLock: fileLock}
}

// AddIfAbsent adds entry to the index at path. It reports whether the file
// was written; an entry that is already present leaves the file untouched.
// A missing or malformed file is replaced by a one-element index.
func (s *Store) AddIfAbsent(path, entry string) (bool, error) {
	written := false
	err := s.update(path, func(cur Result) ([]string, bool) {
		switch cur.State {
		case Loaded:
			if slices.Contains(cur.Entries, entry) {
				return nil, false
			}
			written = true
			return append(cur.Entries, entry), true
		default:
			written = true
			return []string{entry}, true
		}
	})
	if err != nil {
		return false, fmt.Errorf("adding %q to index %s: %w", entry, path, err)
	}
	return written, nil
}

// Replace sets the index at path to exactly entries. It reports whether the
// file was written; an index that already holds the same set in canonical
// order is left untouched.
func (s *Store) Replace(path string, entries []string) (bool, error) {
	want := normalize(entries)
	written := false
	err := s.update(path, func(cur Result) ([]string, bool) {
		if cur.State == Loaded && slices.Equal(cur.Entries, want) {
			return nil, false
		}
		written = true
		return want, true
	})
	if err != nil {
		return false, fmt.Errorf("replacing index %s: %w", path, err)
	}
	return written, nil
}

// update runs the read-modify-write cycle on path. mutate receives the
// current content and returns the new entries, or false to leave the file
// as it is.
func (s *Store) update(path string, mutate func(Result) ([]string, bool)) error {
	unlock := s.paths.lock(filepath.Clean(path))
	defer unlock()

	f, created, err := openIndex(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if s.fileLock {
		if err := lockFile(f); err != nil {
			return fmt.Errorf("locking: %w", err)
		}
		defer unlockFile(f)
	}

	cur, err := readOpen(f, created)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	next, ok := mutate(cur)
	if !ok {
		return nil
	}

	data, err := encode(next)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if err := overwrite(f, data); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	return nil
}

// openIndex opens path for in-place update, creating it when it does not
// exist yet. created reports whether this call made the file.
func openIndex(path string) (*os.File, bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err == nil {
		return f, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("opening: %w", err)
	}

	f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("creating: %w", err)
	}
	return f, true, nil
}

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
