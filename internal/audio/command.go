package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bft-labs/chime/internal/ports"
)

// DefaultGrace is how long a player gets to exit after the interrupt
// signal before it is killed.
const DefaultGrace = 2 * time.Second

// ArgsFunc builds a full argv (program first) for a sound file path.
type ArgsFunc func(path string) []string

// Command is a Mechanism that plays a file by running an external program.
type Command struct {
	name  string
	args  ArgsFunc
	grace time.Duration
}

// NewCommand creates a mechanism that runs argv with the sound path appended.
func NewCommand(name string, argv ...string) *Command {
	base := append([]string(nil), argv...)
	return NewCommandFunc(name, func(path string) []string {
		return append(append([]string(nil), base...), path)
	})
}

// NewCommandFunc creates a mechanism whose argv is computed per file.
func NewCommandFunc(name string, args ArgsFunc) *Command {
	return &Command{name: name, args: args, grace: DefaultGrace}
}

// Name implements ports.Mechanism.
func (c *Command) Name() string { return c.name }

// Play runs the player and waits for it to exit. When ctx is done the
// process group is interrupted, then killed after the grace period.
// started is false only when the program could not be launched.
func (c *Command) Play(ctx context.Context, path string) (bool, error) {
	argv := c.args(path)
	if len(argv) == 0 {
		return false, fmt.Errorf("%s: empty command", c.name)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, n: 4096}
	cmd.WaitDelay = c.grace
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("%s: start: %w", c.name, err)
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	select {
	case err := <-waitCh:
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return true, fmt.Errorf("%s: %w: %s", c.name, err, msg)
			}
			return true, fmt.Errorf("%s: %w", c.name, err)
		}
		return true, nil
	case <-ctx.Done():
		_ = terminate(cmd, waitCh, c.grace)
		return true, ctx.Err()
	}
}

// terminate interrupts the process group, waits up to grace for it to
// exit, then kills it. It always drains waitCh.
func terminate(cmd *exec.Cmd, waitCh <-chan error, grace time.Duration) error {
	_ = interruptGroup(cmd)

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-waitCh:
		return err
	case <-timer.C:
		_ = killGroup(cmd)
		return <-waitCh
	}
}

type limitedWriter struct {
	w *bytes.Buffer
	n int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if room := l.n - l.w.Len(); room > 0 {
		if len(p) > room {
			l.w.Write(p[:room])
		} else {
			l.w.Write(p)
		}
	}
	return len(p), nil
}

var _ ports.Mechanism = (*Command)(nil)
