package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/metrics"
	"github.com/bft-labs/chime/internal/ports"
	"github.com/bft-labs/chime/pkg/log"
)

// Default playback timeouts.
const (
	DefaultSingleTimeout = 300 * time.Second
	DefaultTrackTimeout  = 600 * time.Second
)

// Attempt records one mechanism invocation.
type Attempt struct {
	Mechanism string
	Started   bool
	Err       error
}

// Outcome is the result of PlaySingle.
type Outcome struct {
	Ref string

	// Mechanism is the name of the mechanism that produced sound.
	Mechanism string

	// TimedOut is set when the mechanism was stopped at the deadline after
	// it had started. That still counts as success.
	TimedOut bool

	Attempts []Attempt
	Err      error
}

// OK reports whether some mechanism produced sound.
func (o Outcome) OK() bool { return o.Err == nil }

// Backend plays single sound files through an ordered mechanism chain.
type Backend struct {
	fs         afero.Fs
	mechanisms []ports.Mechanism
	logger     log.Logger
}

// NewBackend creates a Backend. A nil fs means the OS filesystem.
func NewBackend(fs afero.Fs, mechanisms []ports.Mechanism, logger log.Logger) *Backend {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Backend{fs: fs, mechanisms: mechanisms, logger: logger}
}

// Exists reports whether ref names an existing file.
func (b *Backend) Exists(ref string) bool {
	info, err := b.fs.Stat(ref)
	return err == nil && !info.IsDir()
}

// PlaySingle plays ref, trying each mechanism in order under its own
// timeout. A missing file or a directory fails with
// domain.ErrSoundNotFound before any mechanism runs. If every mechanism
// fails the error wraps domain.ErrAllMechanismsFailed and each attempt's
// error.
func (b *Backend) PlaySingle(ctx context.Context, ref string, timeout time.Duration) Outcome {
	out := Outcome{Ref: ref}

	info, err := b.fs.Stat(ref)
	switch {
	case errors.Is(err, os.ErrNotExist):
		out.Err = fmt.Errorf("%w: %s", domain.ErrSoundNotFound, ref)
		return out
	case err != nil:
		out.Err = fmt.Errorf("stat %s: %w", ref, err)
		return out
	case info.IsDir():
		out.Err = fmt.Errorf("%w: %s is a directory", domain.ErrSoundNotFound, ref)
		return out
	}
	if timeout <= 0 {
		timeout = DefaultSingleTimeout
	}

	var errs []error
	for _, m := range b.mechanisms {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		started, err := m.Play(attemptCtx, ref)
		cancel()

		out.Attempts = append(out.Attempts, Attempt{Mechanism: m.Name(), Started: started, Err: err})

		switch {
		case err == nil:
			metrics.IncPlaybackAttempt(m.Name(), metrics.ResultOK)
			out.Mechanism = m.Name()
			return out

		case ctx.Err() != nil:
			metrics.IncPlaybackAttempt(m.Name(), metrics.ResultCanceled)
			out.Err = ctx.Err()
			return out

		case started && errors.Is(err, context.DeadlineExceeded):
			metrics.IncPlaybackAttempt(m.Name(), metrics.ResultTimeout)
			b.logger.Warn("playback stopped at timeout",
				log.String("mechanism", m.Name()),
				log.String("sound", ref),
				log.Duration("timeout", timeout),
			)
			out.Mechanism = m.Name()
			out.TimedOut = true
			return out
		}

		metrics.IncPlaybackAttempt(m.Name(), metrics.ResultFailed)
		b.logger.Debug("playback mechanism failed",
			log.String("mechanism", m.Name()),
			log.String("sound", ref),
			log.Err(err),
		)
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		out.Err = fmt.Errorf("%w: %s: no mechanisms configured", domain.ErrAllMechanismsFailed, ref)
		return out
	}
	out.Err = fmt.Errorf("%w: %s: %w", domain.ErrAllMechanismsFailed, ref, errors.Join(errs...))
	return out
}
