// Package notify implements ports.Notifier.
package notify

import (
	"fmt"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/ports"
	"github.com/bft-labs/chime/pkg/log"
)

// LogNotifier writes events to the activity log as "● [HH:MM:SS] message".
type LogNotifier struct {
	logger log.Logger
}

// NewLogNotifier creates a LogNotifier writing through logger.
func NewLogNotifier(logger log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &LogNotifier{logger: logger}
}

// Log implements ports.Notifier.
func (n *LogNotifier) Log(e domain.Event) {
	msg := Format(e)
	fields := []log.Field{log.String("kind", string(e.Kind))}
	if e.EntryName != "" {
		fields = append(fields, log.String("entry", e.EntryName))
	}

	switch e.Kind {
	case domain.EventTickFailed:
		n.logger.Error(msg, fields...)
	case domain.EventPlaybackFailed, domain.EventTrackFailed, domain.EventTrackMissing,
		domain.EventSoundMissing, domain.EventDispatchDropped:
		n.logger.Warn(msg, fields...)
	case domain.EventStatusActive, domain.EventStatusIdle:
		n.logger.Debug(msg, fields...)
	default:
		n.logger.Info(msg, fields...)
	}
}

// Format renders an event as an activity-log line.
func Format(e domain.Event) string {
	return fmt.Sprintf("● [%s] %s", e.Time.Format("15:04:05"), e.Message)
}

// Multi fans an event out to several notifiers in order.
type Multi []ports.Notifier

// Log implements ports.Notifier.
func (m Multi) Log(e domain.Event) {
	for _, n := range m {
		n.Log(e)
	}
}

var (
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.Notifier = Multi(nil)
)
