package domain

import "errors"

// Domain errors represent error conditions in the chime domain.
// They can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned by lifecycle transitions into Running
	// when the engine is already Running.
	ErrAlreadyRunning = errors.New("chime: already running")

	// ErrNotRunning is returned by lifecycle transitions into Idle when the
	// engine is already Idle.
	ErrNotRunning = errors.New("chime: not running")

	// ErrShutdownTimeout is returned when the poll loop does not exit in time.
	ErrShutdownTimeout = errors.New("chime: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("chime: invalid configuration")

	// ErrInvalidTime is returned when a time-of-day string does not match
	// HH:MM or HH:MM:SS.
	ErrInvalidTime = errors.New("chime: invalid time of day")

	// ErrUnknownPlaylist is returned when a reminder references a playlist
	// that is not defined.
	ErrUnknownPlaylist = errors.New("chime: unknown playlist")

	// ErrScheduleNotFound is returned when the schedule source does not exist.
	ErrScheduleNotFound = errors.New("chime: schedule not found")

	// ErrEmptySchedule is returned when no valid reminder survives loading.
	ErrEmptySchedule = errors.New("chime: no valid reminders in schedule")

	// ErrSoundNotFound is returned when a sound file is missing at play time.
	ErrSoundNotFound = errors.New("chime: sound file not found")

	// ErrAllMechanismsFailed is returned when every audio mechanism failed
	// for a track.
	ErrAllMechanismsFailed = errors.New("chime: all audio mechanisms failed")

	// ErrQueueFull is returned when the playback queue cannot accept a request.
	ErrQueueFull = errors.New("chime: playback queue full")

	// ErrQueueClosed is returned when a request is dispatched after Close.
	ErrQueueClosed = errors.New("chime: playback queue closed")
)
