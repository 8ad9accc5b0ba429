// Package archive runs one capture: it consults the daylight gate, takes the
// picture and records it in the per-date and global indices.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/raoulx24/birdwatcher/internal/camera"
	"github.com/raoulx24/birdwatcher/internal/fs"
	"github.com/raoulx24/birdwatcher/internal/index"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

// Gate decides whether a capture should happen at t.
type Gate interface {
	ShouldCapture(t time.Time) bool
}

type Status int

const (
	Skipped Status = iota
	Captured
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Captured:
		return "captured"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes a finished invocation. A nighttime skip is a successful
// result with Status Skipped and no paths.
type Result struct {
	Status Status
	At     time.Time
	Date   string
	Name   string
	Path   string
}

// Orchestrator ties gate, camera and indices together.
type Orchestrator struct {
	layout Layout
	gate   Gate
	cam    camera.Camera
	fs     fs.FS
	idx    *index.Store
	log    logging.Logger
}

// New creates an orchestrator. A nil filesystem selects the OS filesystem.
func New(layout Layout, gate Gate, cam camera.Camera, idx *index.Store, log logging.Logger, filesystem fs.FS) *Orchestrator {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Orchestrator{
		layout: layout,
		gate:   gate,
		cam:    cam,
		fs:     filesystem,
		idx:    idx,
		log:    log,
	}
}

// Layout returns the picture tree layout.
func (o *Orchestrator) Layout() Layout {
	return o.layout
}

// Run performs one invocation for the instant now. Indices are only touched
// after the camera reported success.
func (o *Orchestrator) Run(ctx context.Context, now time.Time) (Result, error) {
	res := Result{Status: Skipped, At: now}

	if !o.gate.ShouldCapture(now) {
		o.log.Info("nighttime, skipping capture", "at", now.Format(time.RFC3339))
		return res, nil
	}

	date := o.layout.DateString(now)
	name := o.layout.PictureName(now)
	dir := o.layout.Dir(date)

	if err := o.fs.EnsureDir(dir); err != nil {
		return res, err
	}

	o.log.Debug("capturing", "dir", dir, "name", name)
	if err := o.cam.Capture(ctx, dir, name); err != nil {
		return res, fmt.Errorf("capturing %s: %w", name, err)
	}

	// per-date index first: if the process dies before the dates index is
	// updated, the next capture on this date repairs it
	if _, err := o.idx.AddIfAbsent(o.layout.PicturesIndex(date), name); err != nil {
		return res, err
	}
	if _, err := o.idx.AddIfAbsent(o.layout.DatesIndex(), date); err != nil {
		return res, err
	}

	res.Status = Captured
	res.Date = date
	res.Name = name
	res.Path = filepath.Join(dir, name)
	o.log.Info("captured", "path", res.Path)
	return res, nil
}
