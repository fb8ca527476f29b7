// Package tracker records which reminders have fired.
//
// The tracker grows monotonically for the life of the process unless Reset
// is called. The engine only calls Reset when daily rollover is enabled.
package tracker

import (
	"sort"
	"sync"

	"github.com/bft-labs/chime/internal/ports"
)

// Tracker is a concurrency-safe set of fired reminder IDs.
type Tracker struct {
	mu    sync.RWMutex
	fired map[string]struct{}
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{fired: make(map[string]struct{})}
}

// HasFired reports whether id has been marked.
func (t *Tracker) HasFired(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.fired[id]
	return ok
}

// MarkFired records id. Marking an id twice is a no-op.
func (t *Tracker) MarkFired(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fired[id] = struct{}{}
}

// Reset forgets every id.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fired = make(map[string]struct{})
}

// Len returns the number of fired ids.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.fired)
}

// Snapshot returns the fired ids in sorted order.
func (t *Tracker) Snapshot() []string {
	t.mu.RLock()
	ids := make([]string, 0, len(t.fired))
	for id := range t.fired {
		ids = append(ids, id)
	}
	t.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

var _ ports.FiredTracker = (*Tracker)(nil)
