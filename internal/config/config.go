// Package config loads and validates the birdwatcher configuration.
package config

import "time"

type Config struct {
	PictureRoot  string         `yaml:"pictureRoot"`
	Location     LocationConfig `yaml:"location"`
	Camera       CameraConfig   `yaml:"camera"`
	Schedule     ScheduleConfig `yaml:"schedule"`
	Index        IndexConfig    `yaml:"index"`
	Logging      LoggingConfig  `yaml:"logging"`
	ConfigReload ReloadConfig   `yaml:"configReload"`
}

// LocationConfig names a location from the built-in table, or gives its
// coordinates directly. Coordinates win over the name when both are set.
type LocationConfig struct {
	Name      string   `yaml:"name"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	Timezone  string   `yaml:"timezone"`
}

type CameraConfig struct {
	Backend   string   `yaml:"backend"` // "exec", "gocv"
	Command   string   `yaml:"command"`
	Args      []string `yaml:"args"`
	Device    int      `yaml:"device"` // gocv only
	Extension string   `yaml:"extension"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

type IndexConfig struct {
	Lock *bool `yaml:"lock"` // advisory flock around index updates
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text"
}

type ReloadConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Method       string        `yaml:"method"` // "auto", "poll", "fsnotify"
	PollInterval time.Duration `yaml:"pollInterval"`
}

// LockEnabled reports whether index updates take the advisory file lock.
func (c IndexConfig) LockEnabled() bool {
	return c.Lock == nil || *c.Lock
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	return &Config{
		PictureRoot: "/tmp/birdwatcher/pictures",
		Location:    LocationConfig{Name: "Amsterdam"},
		Camera: CameraConfig{
			Backend:   "exec",
			Command:   "fswebcam",
			Args:      []string{"-r", "5000x500000", "--no-banner", "-q", "-S", "30"},
			Extension: ".jpg",
		},
		Schedule: ScheduleConfig{Cron: "*/10 * * * *"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		ConfigReload: ReloadConfig{
			Method:       "auto",
			PollInterval: 5 * time.Second,
		},
	}
}
