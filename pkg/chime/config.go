package chime

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/chime/internal/app"
	"github.com/bft-labs/chime/internal/audio"
	"github.com/bft-labs/chime/internal/domain"
)

// DefaultScheduleFile is read when Config.ScheduleFile is empty.
const DefaultScheduleFile = "reminders.csv"

// Config holds the configuration of a Chime instance.
// Zero values are replaced by defaults in SetDefaults.
type Config struct {
	// ScheduleFile is the CSV, YAML or TOML schedule to load.
	ScheduleFile string

	// PollInterval is how often the clock is checked. Must not exceed one
	// second, otherwise an exact-second reminder could be skipped.
	PollInterval time.Duration

	// ActiveStatusDuration is how long the "ACTIVE" status is shown after
	// a reminder fires.
	ActiveStatusDuration time.Duration

	// SingleTrackTimeout bounds playback of a single sound.
	SingleTrackTimeout time.Duration

	// PlaylistTrackTimeout bounds playback of each playlist track.
	PlaylistTrackTimeout time.Duration

	// QueueSize is the number of playback requests that may wait.
	QueueSize int

	// ResetDaily re-arms every reminder when the date changes.
	ResetDaily bool

	// Playlists adds to or overrides the built-in playlist table.
	Playlists map[string][]string

	// PrimaryPlayer and SecondaryPlayer are player argv prefixes; the
	// sound path is appended. Empty means the built-in default.
	PrimaryPlayer   []string
	SecondaryPlayer []string

	// ShutdownTimeout bounds how long Stop waits for the poll loop.
	ShutdownTimeout time.Duration
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if strings.TrimSpace(c.ScheduleFile) == "" {
		c.ScheduleFile = DefaultScheduleFile
	}
	if c.PollInterval == 0 {
		c.PollInterval = app.DefaultPollInterval
	}
	if c.ActiveStatusDuration == 0 {
		c.ActiveStatusDuration = app.DefaultActiveStatusDuration
	}
	if c.SingleTrackTimeout == 0 {
		c.SingleTrackTimeout = audio.DefaultSingleTimeout
	}
	if c.PlaylistTrackTimeout == 0 {
		c.PlaylistTrackTimeout = audio.DefaultTrackTimeout
	}
	if c.QueueSize == 0 {
		c.QueueSize = audio.DefaultQueueSize
	}
	if len(c.PrimaryPlayer) == 0 {
		c.PrimaryPlayer = audio.DefaultPrimaryPlayer
	}
	if len(c.SecondaryPlayer) == 0 {
		c.SecondaryPlayer = audio.DefaultSecondaryPlayer
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = app.ShutdownTimeout
	}
}

// Validate checks the configuration.
// Returns an error wrapping domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 || c.PollInterval > time.Second {
		return fmt.Errorf("%w: poll interval must be in (0, 1s], got %s", domain.ErrInvalidConfig, c.PollInterval)
	}
	if c.ActiveStatusDuration < 0 {
		return fmt.Errorf("%w: active status duration must be positive", domain.ErrInvalidConfig)
	}
	if c.SingleTrackTimeout < 0 || c.PlaylistTrackTimeout < 0 {
		return fmt.Errorf("%w: playback timeouts must be positive", domain.ErrInvalidConfig)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w: queue size must be positive", domain.ErrInvalidConfig)
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

// playlistTable merges Playlists over the built-in table.
func (c *Config) playlistTable() map[string]domain.PlaylistDefinition {
	table := domain.DefaultPlaylists()
	for name, tracks := range c.Playlists {
		cp := make([]string, len(tracks))
		copy(cp, tracks)
		table[name] = domain.PlaylistDefinition{Name: name, Tracks: cp}
	}
	return table
}
