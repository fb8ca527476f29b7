package ports

import "github.com/bft-labs/chime/internal/domain"

// Notifier receives status and log events. It is implemented by the
// presentation layer; the core only produces events.
type Notifier interface {
	// Log records a single event. Implementations must be safe for
	// concurrent use and return quickly.
	Log(event domain.Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(event domain.Event)

// Log calls f(event).
func (f NotifierFunc) Log(event domain.Event) { f(event) }
