package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/chime/internal/domain"
)

// DefaultScheduleFile is the schedule read when none is configured.
const DefaultScheduleFile = "reminders.csv"

// Default player commands; the sound path is appended.
const (
	DefaultPrimaryPlayer   = "ffplay -nodisp -autoexit -loglevel error"
	DefaultSecondaryPlayer = "play -q"
)

// Config holds CLI configuration for chime.
type Config struct {
	ScheduleFile string

	PollInterval         time.Duration
	ActiveStatusDuration time.Duration
	SingleTrackTimeout   time.Duration
	PlaylistTrackTimeout time.Duration

	QueueSize   int
	ResetDaily  bool
	WatchSounds bool

	MetricsAddr string
	LogLevel    string

	PrimaryPlayer   string
	SecondaryPlayer string

	// Playlists adds to or overrides the built-in playlist table.
	Playlists map[string][]string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ScheduleFile:         DefaultScheduleFile,
		PollInterval:         time.Second,
		ActiveStatusDuration: 5 * time.Second,
		SingleTrackTimeout:   300 * time.Second,
		PlaylistTrackTimeout: 600 * time.Second,
		QueueSize:            16,
		WatchSounds:          true,
		LogLevel:             "info",
		PrimaryPlayer:        DefaultPrimaryPlayer,
		SecondaryPlayer:      DefaultSecondaryPlayer,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ScheduleFile) == "" {
		return fmt.Errorf("%w: schedule file is required", domain.ErrInvalidConfig)
	}

	// Matching is exact to the second, so a slower poll could skip a reminder.
	if c.PollInterval <= 0 || c.PollInterval > time.Second {
		return fmt.Errorf("%w: poll interval must be in (0, 1s], got %s", domain.ErrInvalidConfig, c.PollInterval)
	}
	if c.ActiveStatusDuration <= 0 {
		return fmt.Errorf("%w: active status duration must be positive", domain.ErrInvalidConfig)
	}
	if c.SingleTrackTimeout <= 0 {
		return fmt.Errorf("%w: single track timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.PlaylistTrackTimeout <= 0 {
		return fmt.Errorf("%w: playlist track timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue size must be positive", domain.ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level: %v", domain.ErrInvalidConfig, err)
	}
	if len(strings.Fields(c.PrimaryPlayer)) == 0 || len(strings.Fields(c.SecondaryPlayer)) == 0 {
		return fmt.Errorf("%w: player commands must not be empty", domain.ErrInvalidConfig)
	}
	for name, tracks := range c.Playlists {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: playlist with empty name", domain.ErrInvalidConfig)
		}
		if len(tracks) == 0 {
			return fmt.Errorf("%w: playlist %q has no tracks", domain.ErrInvalidConfig, name)
		}
	}
	return nil
}

// PrimaryArgv returns the primary player command split into argv.
func (c *Config) PrimaryArgv() []string { return strings.Fields(c.PrimaryPlayer) }

// SecondaryArgv returns the secondary player command split into argv.
func (c *Config) SecondaryArgv() []string { return strings.Fields(c.SecondaryPlayer) }

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
