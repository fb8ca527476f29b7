package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ScheduleFile         string              `toml:"schedule_file"`
	PollInterval         string              `toml:"poll_interval"`
	ActiveStatusDuration string              `toml:"active_status_duration"`
	SingleTrackTimeout   string              `toml:"single_track_timeout"`
	PlaylistTrackTimeout string              `toml:"playlist_track_timeout"`
	QueueSize            int                 `toml:"queue_size"`
	ResetDaily           *bool               `toml:"reset_daily"`
	WatchSounds          *bool               `toml:"watch_sounds"`
	MetricsAddr          string              `toml:"metrics_addr"`
	LogLevel             string              `toml:"log_level"`
	PrimaryPlayer        string              `toml:"primary_player"`
	SecondaryPlayer      string              `toml:"secondary_player"`
	Playlists            map[string][]string `toml:"playlists"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.chime/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".chime", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("schedule", fc.ScheduleFile, &cfg.ScheduleFile)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("primary-player", fc.PrimaryPlayer, &cfg.PrimaryPlayer)
	s.setString("secondary-player", fc.SecondaryPlayer, &cfg.SecondaryPlayer)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("active-duration", fc.ActiveStatusDuration, &cfg.ActiveStatusDuration); err != nil {
		return err
	}
	if err := s.setDuration("single-timeout", fc.SingleTrackTimeout, &cfg.SingleTrackTimeout); err != nil {
		return err
	}
	if err := s.setDuration("track-timeout", fc.PlaylistTrackTimeout, &cfg.PlaylistTrackTimeout); err != nil {
		return err
	}

	s.setInt("queue-size", fc.QueueSize, &cfg.QueueSize)

	s.setBool("reset-daily", fc.ResetDaily, &cfg.ResetDaily)
	s.setBool("watch-sounds", fc.WatchSounds, &cfg.WatchSounds)

	if len(fc.Playlists) > 0 {
		if cfg.Playlists == nil {
			cfg.Playlists = make(map[string][]string, len(fc.Playlists))
		}
		for name, tracks := range fc.Playlists {
			cfg.Playlists[name] = tracks
		}
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
