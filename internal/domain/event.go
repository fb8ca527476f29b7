package domain

import "time"

// EventKind classifies a notification.
type EventKind string

const (
	EventMonitoringStarted EventKind = "monitoring-started"
	EventMonitoringStopped EventKind = "monitoring-stopped"
	EventTriggered         EventKind = "triggered"
	EventNoSoundConfigured EventKind = "no-sound-configured"
	EventDispatched        EventKind = "dispatched"
	EventDispatchDropped   EventKind = "dispatch-dropped"
	EventStatusActive      EventKind = "status-active"
	EventStatusIdle        EventKind = "status-idle"
	EventTrackerReset      EventKind = "tracker-reset"
	EventTickFailed        EventKind = "tick-failed"

	EventPlaybackStarted  EventKind = "playback-started"
	EventPlaybackFinished EventKind = "playback-finished"
	EventPlaybackFailed   EventKind = "playback-failed"
	EventSoundMissing     EventKind = "sound-missing"
	EventSoundRestored    EventKind = "sound-restored"

	EventPlaylistStarted   EventKind = "playlist-started"
	EventTrackStarted      EventKind = "track-started"
	EventTrackMissing      EventKind = "track-missing"
	EventTrackFailed       EventKind = "track-failed"
	EventPlaylistCompleted EventKind = "playlist-completed"
)

// Event is a single activity-log notification.
type Event struct {
	Kind      EventKind
	Message   string
	Time      time.Time
	EntryID   string
	EntryName string
}
