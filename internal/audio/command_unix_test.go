//go:build unix

package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommand_ExitStatus(t *testing.T) {
	tests := []struct {
		name        string
		cmd         *Command
		wantStarted bool
		wantErr     bool
	}{
		{name: "success", cmd: NewCommand("sh", "sh", "-c", "exit 0"), wantStarted: true},
		{name: "nonzero exit", cmd: NewCommand("sh", "sh", "-c", "echo bad file >&2; exit 3"), wantStarted: true, wantErr: true},
		{name: "missing program", cmd: NewCommand("nope", "chime-no-such-player"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started, err := tt.cmd.Play(context.Background(), "/dev/null")
			assert.Equal(t, tt.wantStarted, started)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommand_StderrInError(t *testing.T) {
	c := NewCommand("sh", "sh", "-c", "echo unsupported format >&2; exit 1")

	_, err := c.Play(context.Background(), "x.mp3")

	assert.ErrorContains(t, err, "unsupported format")
}

func TestCommand_PathAppended(t *testing.T) {
	c := NewCommand("sh", "sh", "-c", `test "$0" = "my file.mp3"`)

	started, err := c.Play(context.Background(), "my file.mp3")

	assert.True(t, started)
	assert.NoError(t, err)
}

func TestCommand_StopsAtDeadline(t *testing.T) {
	c := NewCommand("sleep", "sh", "-c", "sleep 30 & sleep 30")
	c.grace = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	started, err := c.Play(ctx, "")

	assert.True(t, started)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDefaultMechanisms(t *testing.T) {
	chain := DefaultMechanisms(nil, []string{"/usr/bin/mpg123", "-q"})

	assert.GreaterOrEqual(t, len(chain), 2)
	assert.Equal(t, "ffplay", chain[0].Name())
	assert.Equal(t, "mpg123", chain[1].Name())
}
