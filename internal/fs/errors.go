package fs

import (
	"errors"
	"io/fs"
	"syscall"
)

// defines helpers for classifying filesystem errors.
// Transient errors are retried; EEXIST on directory creation is a benign race.

func isTransient(err error) bool {
	if errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	return false
}

func isExist(err error) bool {
	return errors.Is(err, fs.ErrExist)
}
