// Package metrics exposes Prometheus metrics for the trigger engine and the
// playback path. Labels are bounded: mechanism names and fixed result strings.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Playback results used as label values.
const (
	ResultOK       = "ok"
	ResultTimeout  = "timeout"
	ResultFailed   = "failed"
	ResultMissing  = "missing"
	ResultCanceled = "canceled"
)

var (
	// RemindersFiredTotal counts reminders that matched and were marked fired, by target.
	RemindersFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chime_reminders_fired_total",
		Help: "Total number of reminders fired, by playback target (single, playlist, none).",
	}, []string{"target"})

	// PlaybackAttemptsTotal counts mechanism invocations by mechanism and result.
	PlaybackAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chime_playback_attempts_total",
		Help: "Total number of playback mechanism attempts, by mechanism and result.",
	}, []string{"mechanism", "result"})

	// PlaylistTracksTotal counts playlist tracks by result.
	PlaylistTracksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chime_playlist_tracks_total",
		Help: "Total number of playlist tracks handled, by result (ok, missing, failed).",
	}, []string{"result"})

	// QueueDepth is the number of playback requests waiting in the queue.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chime_queue_depth",
		Help: "Number of playback requests waiting to be played.",
	})

	// QueueDroppedTotal counts requests rejected because the queue was full or closed.
	QueueDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chime_queue_dropped_total",
		Help: "Total number of playback requests dropped, by reason (full, closed).",
	}, []string{"reason"})

	// TickPanicsTotal counts recovered panics in the poll loop and queue worker.
	TickPanicsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chime_recovered_panics_total",
		Help: "Total number of recovered panics, by component.",
	}, []string{"component"})

	// SoundsMissing is the number of referenced sound files currently absent.
	SoundsMissing = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chime_sounds_missing",
		Help: "Number of referenced sound files that are currently missing.",
	})
)

// IncFired records a fired reminder.
func IncFired(target string) {
	RemindersFiredTotal.WithLabelValues(target).Inc()
}

// IncPlaybackAttempt records one mechanism attempt.
func IncPlaybackAttempt(mechanism, result string) {
	PlaybackAttemptsTotal.WithLabelValues(mechanism, result).Inc()
}

// IncPlaylistTrack records one playlist track outcome.
func IncPlaylistTrack(result string) {
	PlaylistTracksTotal.WithLabelValues(result).Inc()
}

// IncDropped records a dropped playback request.
func IncDropped(reason string) {
	QueueDroppedTotal.WithLabelValues(reason).Inc()
}

// IncPanic records a recovered panic.
func IncPanic(component string) {
	TickPanicsTotal.WithLabelValues(component).Inc()
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
