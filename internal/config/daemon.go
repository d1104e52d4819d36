package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that unmarshals from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer seconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '30s', '5m', '1h30m' or seconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for hyprsupremed.
// Loaded from ~/.config/hyprsupreme/daemon.toml.
type DaemonConfig struct {
	AutoTheme     AutoThemeConfig     `toml:"autotheme"`
	Workspace     WorkspaceConfig     `toml:"workspace"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// AutoThemeConfig controls scheduled light/dark theme switching.
type AutoThemeConfig struct {
	Enabled     bool     `toml:"enabled"`
	LightTheme  string   `toml:"light_theme"`
	DarkTheme   string   `toml:"dark_theme"`
	DayStarts   string   `toml:"day_starts"`   // "HH:MM", used when use_location is false
	NightStarts string   `toml:"night_starts"` // "HH:MM"
	UseLocation bool     `toml:"use_location"` // Resolve boundaries from sunrise/sunset
	Latitude    float64  `toml:"latitude"`
	Longitude   float64  `toml:"longitude"`
	Interval    Duration `toml:"interval"` // How often the classifier is re-evaluated
}

// WorkspaceConfig controls the workspace window tracker.
type WorkspaceConfig struct {
	Track     bool     `toml:"track"`
	StateFile string   `toml:"state_file"` // Empty = default under XDG state dir
	Debounce  Duration `toml:"debounce"`
}

// NotificationsConfig controls desktop notifications sent by the daemon.
type NotificationsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultDaemonConfig returns a DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		AutoTheme: AutoThemeConfig{
			Enabled:     false,
			DayStarts:   "07:00",
			NightStarts: "19:00",
			Interval:    Duration(5 * time.Minute),
		},
		Workspace: WorkspaceConfig{
			Track:    true,
			Debounce: Duration(500 * time.Millisecond),
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
	}
}

// LoadDaemonConfig loads the daemon configuration from path.
// If path is empty the default location is used. A missing file yields
// the default configuration.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		path = DaemonConfigPath()
	}

	cfg := DefaultDaemonConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse daemon config %s: %w", path, err)
	}

	return cfg, nil
}
