package archive

import (
	"fmt"

	"github.com/raoulx24/birdwatcher/internal/camera"
	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/daylight"
	"github.com/raoulx24/birdwatcher/internal/fs"
	"github.com/raoulx24/birdwatcher/internal/fsprobe"
	"github.com/raoulx24/birdwatcher/internal/index"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

// FromConfig validates cfg and assembles an orchestrator. Every error it
// returns is a configuration error wrapping config.ErrInvalid. Nothing is
// written; the picture root need not exist yet.
func FromConfig(cfg *config.Config, log logging.Logger) (*Orchestrator, *daylight.Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	loc, err := daylight.Resolve(cfg.Location)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	if err := fsprobe.Writable(cfg.PictureRoot); err != nil {
		return nil, nil, fmt.Errorf("%w: pictureRoot: %w", config.ErrInvalid, err)
	}

	filesystem := fs.New()
	cam, err := camera.New(cfg.Camera, filesystem, log)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	gate := daylight.New(loc)
	layout := Layout{
		Root:      cfg.PictureRoot,
		Extension: cfg.Camera.Extension,
		TZ:        loc.TZ,
	}

	log.Debug("orchestrator ready", "root", layout.Root, "location", loc.Name, "backend", cfg.Camera.Backend)
	return New(layout, gate, cam, index.NewStore(cfg.Index.LockEnabled()), log, filesystem), gate, nil
}
