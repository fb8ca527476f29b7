package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of every environment variable chime reads.
const EnvPrefix = "CHIME_"

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnvConfig applies CHIME_* environment variables to cfg.
// Environment values override the config file; flags that were set
// explicitly (changed map) win over both.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(key string) string { return os.Getenv(EnvPrefix + key) }

	s.setString("schedule", env("SCHEDULE_FILE"), &cfg.ScheduleFile)
	s.setString("metrics-addr", env("METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)
	s.setString("primary-player", env("PRIMARY_PLAYER"), &cfg.PrimaryPlayer)
	s.setString("secondary-player", env("SECONDARY_PLAYER"), &cfg.SecondaryPlayer)

	if err := s.setDuration("poll", env("POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("active-duration", env("ACTIVE_STATUS_DURATION"), &cfg.ActiveStatusDuration); err != nil {
		return err
	}
	if err := s.setDuration("single-timeout", env("SINGLE_TRACK_TIMEOUT"), &cfg.SingleTrackTimeout); err != nil {
		return err
	}
	if err := s.setDuration("track-timeout", env("PLAYLIST_TRACK_TIMEOUT"), &cfg.PlaylistTrackTimeout); err != nil {
		return err
	}
	if err := s.setIntFromString("queue-size", env("QUEUE_SIZE"), &cfg.QueueSize); err != nil {
		return err
	}

	s.setBoolFromString("reset-daily", env("RESET_DAILY"), &cfg.ResetDaily)
	s.setBoolFromString("watch-sounds", env("WATCH_SOUNDS"), &cfg.WatchSounds)

	return nil
}
