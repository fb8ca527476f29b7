package chime

import (
	"github.com/bft-labs/chime/internal/app"
	"github.com/bft-labs/chime/internal/clock"
	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/ports"
	"github.com/bft-labs/chime/internal/schedule"
	"github.com/bft-labs/chime/pkg/log"
)

// Re-exported types so embedders do not need internal packages.
type (
	// Event is a single activity-log notification.
	Event = domain.Event

	// EventKind classifies an Event.
	EventKind = domain.EventKind

	// ReminderEntry is a loaded reminder.
	ReminderEntry = domain.ReminderEntry

	// PlaylistDefinition is a named, ordered list of tracks.
	PlaylistDefinition = domain.PlaylistDefinition

	// Notifier receives activity-log events.
	Notifier = ports.Notifier

	// NotifierFunc adapts a function to Notifier.
	NotifierFunc = ports.NotifierFunc

	// Mechanism is one way of producing sound from a file.
	Mechanism = ports.Mechanism

	// RowError describes a schedule row that was dropped at load.
	RowError = schedule.RowError

	// Logger is the structured logger used throughout chime.
	Logger = log.Logger

	// Clock is the time source of the poll loop.
	Clock = clock.Clock
)

// Event kinds, re-exported for Notifier implementations.
const (
	EventMonitoringStarted = domain.EventMonitoringStarted
	EventMonitoringStopped = domain.EventMonitoringStopped
	EventTriggered         = domain.EventTriggered
	EventNoSoundConfigured = domain.EventNoSoundConfigured
	EventDispatched        = domain.EventDispatched
	EventDispatchDropped   = domain.EventDispatchDropped
	EventStatusActive      = domain.EventStatusActive
	EventStatusIdle        = domain.EventStatusIdle
	EventTrackerReset      = domain.EventTrackerReset
	EventTickFailed        = domain.EventTickFailed
	EventPlaybackStarted   = domain.EventPlaybackStarted
	EventPlaybackFinished  = domain.EventPlaybackFinished
	EventPlaybackFailed    = domain.EventPlaybackFailed
	EventSoundMissing      = domain.EventSoundMissing
	EventSoundRestored     = domain.EventSoundRestored
	EventPlaylistStarted   = domain.EventPlaylistStarted
	EventTrackStarted      = domain.EventTrackStarted
	EventTrackMissing      = domain.EventTrackMissing
	EventTrackFailed       = domain.EventTrackFailed
	EventPlaylistCompleted = domain.EventPlaylistCompleted
)

// State is the lifecycle state of a Chime instance.
type State int

const (
	// StateIdle means the poll loop is not running.
	StateIdle State = iota
	// StateRunning means the poll loop is checking the clock.
	StateRunning
	// StateClosed means Close was called; the instance cannot be restarted.
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateChangeEvent is passed to EventHandler.OnStateChange.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives lifecycle notifications. Calls are synchronous;
// implementations should return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
}

// BaseEventHandler provides a no-op EventHandler for embedding.
type BaseEventHandler struct{}

// OnStateChange does nothing.
func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateRunning:
		return StateRunning
	default:
		return StateIdle
	}
}
