package ports

import "context"

// Mechanism is one way of producing audible output from a sound file.
type Mechanism interface {
	// Name identifies the mechanism in logs and metrics.
	Name() string

	// Play blocks until playback of path finishes or ctx is done.
	// When ctx is done the mechanism must stop playback before returning.
	// started reports whether audio output actually began.
	Play(ctx context.Context, path string) (started bool, err error)
}
