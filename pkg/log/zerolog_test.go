package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf))

	adapter.Info("reminder fired",
		String("entry", "09:30"),
		Int("count", 2),
		Bool("playlist", true),
		Duration("timeout", 5*time.Second),
		Err(errors.New("boom")),
		Any("tracks", []string{"a.mp3"}),
	)

	out := buf.String()
	for _, want := range []string{`"entry":"09:30"`, `"count":2`, `"playlist":true`, `"error":"boom"`, `"tracks":["a.mp3"]`, `"message":"reminder fired"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestNewConsoleLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewConsoleLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("NewConsoleLogger() error = %v", err)
	}

	adapter := NewZerologAdapterWithLogger(logger)
	adapter.Info("hidden")
	adapter.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestNewConsoleLogger_InvalidLevel(t *testing.T) {
	if _, err := NewConsoleLogger(&bytes.Buffer{}, "loud"); err == nil {
		t.Error("NewConsoleLogger() expected error for invalid level")
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x", Err(errors.New("ignored")))
}
