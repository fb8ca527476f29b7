package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlaybackTarget selects how a PlaybackRequest is played.
type PlaybackTarget int

const (
	TargetSingle PlaybackTarget = iota
	TargetPlaylist
)

// String returns a human-readable representation of the target.
func (t PlaybackTarget) String() string {
	switch t {
	case TargetSingle:
		return "single"
	case TargetPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// PlaybackRequest is handed from the engine to the playback queue.
// The queue worker owns it until playback completes.
type PlaybackRequest struct {
	ID          string
	Target      PlaybackTarget
	Ref         string   // sound path for TargetSingle, playlist name for TargetPlaylist
	Tracks      []string // playlist tracks, in order
	EntryID     string
	EntryName   string
	RequestedAt time.Time
}

// NewSingleRequest builds a single-track request for entry.
func NewSingleRequest(entry ReminderEntry, at time.Time) PlaybackRequest {
	return PlaybackRequest{
		ID:          uuid.NewString(),
		Target:      TargetSingle,
		Ref:         entry.SoundRef,
		EntryID:     entry.ID,
		EntryName:   entry.Name,
		RequestedAt: at,
	}
}

// NewPlaylistRequest builds a playlist request for entry.
func NewPlaylistRequest(entry ReminderEntry, playlist PlaylistDefinition, at time.Time) PlaybackRequest {
	tracks := make([]string, len(playlist.Tracks))
	copy(tracks, playlist.Tracks)
	return PlaybackRequest{
		ID:          uuid.NewString(),
		Target:      TargetPlaylist,
		Ref:         playlist.Name,
		Tracks:      tracks,
		EntryID:     entry.ID,
		EntryName:   entry.Name,
		RequestedAt: at,
	}
}
