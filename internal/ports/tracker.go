package ports

// FiredTracker remembers which reminder IDs have already fired.
// Implementations must be safe for concurrent use.
type FiredTracker interface {
	// HasFired reports whether id has fired in the current period.
	HasFired(id string) bool

	// MarkFired records id as fired.
	MarkFired(id string)

	// Reset forgets every fired id, starting a new period.
	Reset()
}
