package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/ports"
	"github.com/bft-labs/chime/pkg/log"
)

type entry struct {
	level  string
	msg    string
	fields []log.Field
}

type captureLogger struct {
	entries []entry
}

func (c *captureLogger) add(level, msg string, fields []log.Field) {
	c.entries = append(c.entries, entry{level: level, msg: msg, fields: fields})
}

func (c *captureLogger) Debug(msg string, f ...log.Field) { c.add("debug", msg, f) }
func (c *captureLogger) Info(msg string, f ...log.Field)  { c.add("info", msg, f) }
func (c *captureLogger) Warn(msg string, f ...log.Field)  { c.add("warn", msg, f) }
func (c *captureLogger) Error(msg string, f ...log.Field) { c.add("error", msg, f) }

func TestFormat(t *testing.T) {
	e := domain.Event{
		Message: "Reminder triggered: Morning at 06:00",
		Time:    time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "● [06:00:00] Reminder triggered: Morning at 06:00", Format(e))
}

func TestLogNotifier_Levels(t *testing.T) {
	tests := []struct {
		kind  domain.EventKind
		level string
	}{
		{kind: domain.EventTriggered, level: "info"},
		{kind: domain.EventPlaylistCompleted, level: "info"},
		{kind: domain.EventSoundMissing, level: "warn"},
		{kind: domain.EventDispatchDropped, level: "warn"},
		{kind: domain.EventTickFailed, level: "error"},
		{kind: domain.EventStatusIdle, level: "debug"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			logger := &captureLogger{}
			NewLogNotifier(logger).Log(domain.Event{Kind: tt.kind, Message: "m", Time: time.Now()})

			if assert.Len(t, logger.entries, 1) {
				assert.Equal(t, tt.level, logger.entries[0].level)
			}
		})
	}
}

func TestLogNotifier_Fields(t *testing.T) {
	logger := &captureLogger{}
	NewLogNotifier(logger).Log(domain.Event{Kind: domain.EventTriggered, EntryName: "Morning", Time: time.Now()})

	assert.Equal(t, []log.Field{
		log.String("kind", "triggered"),
		log.String("entry", "Morning"),
	}, logger.entries[0].fields)
}

func TestMulti(t *testing.T) {
	var got []string
	a := ports.NotifierFunc(func(e domain.Event) { got = append(got, "a:"+e.Message) })
	b := ports.NotifierFunc(func(e domain.Event) { got = append(got, "b:"+e.Message) })

	Multi{a, b}.Log(domain.Event{Message: "x"})

	assert.Equal(t, []string{"a:x", "b:x"}, got)
}
