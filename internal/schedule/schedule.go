// Package schedule loads reminder definitions into an immutable Schedule.
package schedule

import (
	"fmt"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/pkg/log"
)

// Row is one raw schedule record before parsing.
type Row struct {
	Time     string `yaml:"time" toml:"time"`
	Name     string `yaml:"name" toml:"name"`
	Sound    string `yaml:"sound" toml:"sound"`
	Playlist string `yaml:"playlist" toml:"playlist"`

	// Line is the 1-based source position, used only for logging.
	Line int `yaml:"-" toml:"-"`
}

// Schedule is an ordered, non-empty, immutable list of reminders.
type Schedule struct {
	entries []domain.ReminderEntry
}

// RowError describes a row dropped during Load.
type RowError struct {
	Row Row
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Row.Line, e.Row.Time, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Load parses rows into a Schedule. Rows with an invalid time or an unknown
// playlist are dropped and logged; they never fail the load. Load fails with
// domain.ErrEmptySchedule when no row survives.
func Load(rows []Row, playlists map[string]domain.PlaylistDefinition, logger log.Logger) (*Schedule, []RowError, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	var (
		entries []domain.ReminderEntry
		dropped []RowError
	)
	for _, row := range rows {
		entry, err := parseRow(row, playlists)
		if err != nil {
			rowErr := RowError{Row: row, Err: err}
			dropped = append(dropped, rowErr)
			logger.Warn("dropping schedule row",
				log.Int("line", row.Line),
				log.String("time", row.Time),
				log.String("name", row.Name),
				log.Err(err),
			)
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, dropped, domain.ErrEmptySchedule
	}

	logger.Info("schedule loaded",
		log.Int("reminders", len(entries)),
		log.Int("dropped", len(dropped)),
	)
	return &Schedule{entries: entries}, dropped, nil
}

func parseRow(row Row, playlists map[string]domain.PlaylistDefinition) (domain.ReminderEntry, error) {
	tod, err := ParseTimeOfDay(row.Time)
	if err != nil {
		return domain.ReminderEntry{}, err
	}
	if row.Playlist != "" {
		if _, ok := playlists[row.Playlist]; !ok {
			return domain.ReminderEntry{}, fmt.Errorf("%w: %q", domain.ErrUnknownPlaylist, row.Playlist)
		}
	}
	return domain.ReminderEntry{
		ID:          row.Time,
		Name:        row.Name,
		Time:        tod,
		SoundRef:    row.Sound,
		PlaylistRef: row.Playlist,
	}, nil
}

// New builds a Schedule directly from entries. It fails on an empty list.
func New(entries []domain.ReminderEntry) (*Schedule, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptySchedule
	}
	cp := make([]domain.ReminderEntry, len(entries))
	copy(cp, entries)
	return &Schedule{entries: cp}, nil
}

// Entries returns the reminders in load order. The returned slice is a copy.
func (s *Schedule) Entries() []domain.ReminderEntry {
	cp := make([]domain.ReminderEntry, len(s.entries))
	copy(cp, s.entries)
	return cp
}

// Len returns the number of reminders.
func (s *Schedule) Len() int { return len(s.entries) }

// Each calls fn for every reminder in load order without copying.
func (s *Schedule) Each(fn func(domain.ReminderEntry)) {
	for _, e := range s.entries {
		fn(e)
	}
}

// SoundRefs returns every distinct sound path the schedule can play,
// including the tracks of referenced playlists, in first-seen order.
func (s *Schedule) SoundRefs(playlists map[string]domain.PlaylistDefinition) []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		refs = append(refs, p)
	}
	for _, e := range s.entries {
		if e.PlaylistRef != "" {
			for _, tr := range playlists[e.PlaylistRef].Tracks {
				add(tr)
			}
			continue
		}
		add(e.SoundRef)
	}
	return refs
}
