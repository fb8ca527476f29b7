package ports

import "github.com/bft-labs/chime/internal/domain"

// Dispatcher accepts playback requests from the poll loop.
type Dispatcher interface {
	// Dispatch hands req to the playback path. It must not block on
	// playback; it returns domain.ErrQueueFull when the request was dropped.
	Dispatch(req domain.PlaybackRequest) error
}
