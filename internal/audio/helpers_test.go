package audio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/chime/internal/domain"
)

type fakeMechanism struct {
	name    string
	started bool
	err     error
	block   bool
	panics  bool

	mu     sync.Mutex
	calls  []string
	active int
	peak   int
}

func (f *fakeMechanism) Name() string { return f.name }

func (f *fakeMechanism) Play(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.panics {
		panic("player exploded")
	}
	if f.block {
		<-ctx.Done()
		return true, ctx.Err()
	}
	return f.started, f.err
}

func (f *fakeMechanism) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeMechanism) Peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) Log(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) Kinds() []domain.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func (r *eventRecorder) Count(kind domain.EventKind) int {
	n := 0
	for _, k := range r.Kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func (r *eventRecorder) WaitFor(t *testing.T, kind domain.EventKind, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return r.Count(kind) >= n },
		2*time.Second, 5*time.Millisecond, "waiting for %d %s events", n, kind)
}

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("audio"), 0o644))
	}
	return fs
}
