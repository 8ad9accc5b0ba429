package daylight

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/raoulx24/birdwatcher/internal/config"
)

// ErrUnknownLocation is returned when a location name is not in the table.
var ErrUnknownLocation = errors.New("unknown location")

// Location is a resolved observation point.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	TZ        *time.Location
}

//go:embed locations.yaml
var locationsYAML []byte

type locationEntry struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

var knownLocations = mustParseLocations(locationsYAML)

func mustParseLocations(data []byte) map[string]locationEntry {
	var entries []locationEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		panic(fmt.Sprintf("daylight: parsing embedded locations: %v", err))
	}
	m := make(map[string]locationEntry, len(entries))
	for _, e := range entries {
		m[strings.ToLower(e.Name)] = e
	}
	return m
}

// Resolve turns the configured location into coordinates and a timezone.
// Explicit coordinates win over the name.
func Resolve(cfg config.LocationConfig) (Location, error) {
	if cfg.Latitude != nil && cfg.Longitude != nil {
		tz, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return Location{}, fmt.Errorf("location timezone %q: %w", cfg.Timezone, err)
		}
		name := cfg.Name
		if name == "" {
			name = fmt.Sprintf("%.4f,%.4f", *cfg.Latitude, *cfg.Longitude)
		}
		return Location{Name: name, Latitude: *cfg.Latitude, Longitude: *cfg.Longitude, TZ: tz}, nil
	}

	e, ok := knownLocations[strings.ToLower(strings.TrimSpace(cfg.Name))]
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, cfg.Name)
	}

	tzName := e.Timezone
	if cfg.Timezone != "" {
		tzName = cfg.Timezone
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return Location{}, fmt.Errorf("location %s timezone %q: %w", e.Name, tzName, err)
	}
	return Location{Name: e.Name, Latitude: e.Latitude, Longitude: e.Longitude, TZ: tz}, nil
}
