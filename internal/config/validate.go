package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalid marks configuration errors. They are reported before any
// capture is attempted.
var ErrInvalid = errors.New("invalid configuration")

// CronParser is the parser used for schedule.cron: standard five fields plus
// descriptors such as @hourly.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks everything that can be checked without touching the
// filesystem or the location table.
func (c *Config) Validate() error {
	var errs []error

	if c.PictureRoot == "" {
		errs = append(errs, errors.New("pictureRoot is required"))
	} else if !filepath.IsAbs(c.PictureRoot) {
		errs = append(errs, fmt.Errorf("pictureRoot %q must be absolute", c.PictureRoot))
	}

	if err := c.Location.validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Camera.Backend {
	case "exec":
		if c.Camera.Command == "" {
			errs = append(errs, errors.New("camera.command is required for the exec backend"))
		}
	case "gocv":
		if c.Camera.Device < 0 {
			errs = append(errs, fmt.Errorf("camera.device %d must not be negative", c.Camera.Device))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown camera.backend %q", c.Camera.Backend))
	}
	if !strings.HasPrefix(c.Camera.Extension, ".") || len(c.Camera.Extension) < 2 {
		errs = append(errs, fmt.Errorf("camera.extension %q must look like .jpg", c.Camera.Extension))
	}

	if _, err := CronParser.Parse(c.Schedule.Cron); err != nil {
		errs = append(errs, fmt.Errorf("schedule.cron %q: %w", c.Schedule.Cron, err))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format %q", c.Logging.Format))
	}

	if c.ConfigReload.Enabled {
		switch c.ConfigReload.Method {
		case "auto", "poll", "fsnotify":
		default:
			errs = append(errs, fmt.Errorf("unknown configReload.method %q", c.ConfigReload.Method))
		}
		if c.ConfigReload.Method != "fsnotify" && c.ConfigReload.PollInterval <= 0 {
			errs = append(errs, errors.New("configReload.pollInterval must be positive"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func (l LocationConfig) validate() error {
	hasLat, hasLon := l.Latitude != nil, l.Longitude != nil
	if hasLat != hasLon {
		return errors.New("location.latitude and location.longitude must be set together")
	}
	if !hasLat {
		if l.Name == "" {
			return errors.New("location needs a name or coordinates")
		}
		return nil
	}
	if *l.Latitude < -90 || *l.Latitude > 90 {
		return fmt.Errorf("location.latitude %v out of range", *l.Latitude)
	}
	if *l.Longitude < -180 || *l.Longitude > 180 {
		return fmt.Errorf("location.longitude %v out of range", *l.Longitude)
	}
	if l.Timezone == "" {
		return errors.New("location.timezone is required with coordinates")
	}
	if _, err := time.LoadLocation(l.Timezone); err != nil {
		return fmt.Errorf("location.timezone: %w", err)
	}
	return nil
}
