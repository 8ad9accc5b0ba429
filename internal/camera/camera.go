// Package camera produces image files. Backends write to a temporary file next
// to the target and rename it into place, so a picture either appears whole or
// not at all.
package camera

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/fs"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

// ErrCaptureFailed marks a capture that produced no usable image.
var ErrCaptureFailed = errors.New("capture failed")

// Camera writes one picture to dir/name.
type Camera interface {
	Capture(ctx context.Context, dir, name string) error
}

// New builds the backend selected in cfg.
func New(cfg config.CameraConfig, filesystem fs.FS, log logging.Logger) (Camera, error) {
	if filesystem == nil {
		filesystem = fs.New()
	}
	switch cfg.Backend {
	case "exec":
		return NewExec(cfg.Command, cfg.Args, filesystem, log), nil
	case "gocv":
		return newOpenCV(cfg.Device, filesystem, log)
	default:
		return nil, fmt.Errorf("unknown camera backend %q", cfg.Backend)
	}
}

// partialPath is the temporary file a backend writes before renaming.
func partialPath(dir, name string) string {
	return filepath.Join(dir, "."+name+".partial")
}

// finish validates the partial file and moves it onto dir/name.
func finish(ctx context.Context, filesystem fs.FS, dir, name string) error {
	tmp := partialPath(dir, name)

	info, err := filesystem.Stat(tmp)
	if err != nil {
		return fmt.Errorf("%w: no output written: %w", ErrCaptureFailed, err)
	}
	if info.Size == 0 {
		_ = filesystem.Remove(tmp)
		return fmt.Errorf("%w: empty output", ErrCaptureFailed)
	}

	if err := filesystem.Rename(ctx, tmp, filepath.Join(dir, name)); err != nil {
		_ = filesystem.Remove(tmp)
		return fmt.Errorf("finalizing %s: %w", name, err)
	}
	return nil
}
