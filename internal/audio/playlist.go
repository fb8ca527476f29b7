package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/metrics"
	"github.com/bft-labs/chime/internal/ports"
	"github.com/bft-labs/chime/pkg/log"
)

// PlaylistSummary reports what happened to each track, by 1-based number.
type PlaylistSummary struct {
	Name      string
	Total     int
	Attempted []int
	Skipped   []int
	Failed    []int

	// Canceled is set when the context ended before every track was handled.
	Canceled bool
}

// Player plays playlists through a Backend.
type Player struct {
	backend  *Backend
	notifier ports.Notifier
	logger   log.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewPlayer creates a Player. trackTimeout bounds each track; zero means
// DefaultTrackTimeout.
func NewPlayer(backend *Backend, notifier ports.Notifier, logger log.Logger, trackTimeout time.Duration) *Player {
	if notifier == nil {
		notifier = ports.NotifierFunc(func(domain.Event) {})
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if trackTimeout <= 0 {
		trackTimeout = DefaultTrackTimeout
	}
	return &Player{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		timeout:  trackTimeout,
		now:      time.Now,
	}
}

// PlayAll plays tracks in order. Missing tracks are skipped and failed
// tracks are reported; neither stops the playlist. Only ctx cancellation
// ends it early.
func (p *Player) PlayAll(ctx context.Context, name string, tracks []string) PlaylistSummary {
	return p.play(ctx, domain.PlaybackRequest{Target: domain.TargetPlaylist, Ref: name, Tracks: tracks})
}

func (p *Player) play(ctx context.Context, req domain.PlaybackRequest) PlaylistSummary {
	total := len(req.Tracks)
	sum := PlaylistSummary{Name: req.Ref, Total: total}

	p.emit(req, domain.EventPlaylistStarted, fmt.Sprintf("Starting playlist %s: %d tracks", req.Ref, total))

	for i, track := range req.Tracks {
		n := i + 1
		if ctx.Err() != nil {
			sum.Canceled = true
			break
		}

		if !p.backend.Exists(track) {
			sum.Skipped = append(sum.Skipped, n)
			metrics.IncPlaylistTrack(metrics.ResultMissing)
			p.logger.Warn("playlist track not found",
				log.String("playlist", req.Ref),
				log.Int("track", n),
				log.String("sound", track),
			)
			p.emit(req, domain.EventTrackMissing, fmt.Sprintf("Track %d not found: %s", n, track))
			continue
		}

		sum.Attempted = append(sum.Attempted, n)
		p.emit(req, domain.EventTrackStarted, fmt.Sprintf("Playing track %d/%d: %s", n, total, filepath.Base(track)))

		out := p.backend.PlaySingle(ctx, track, p.timeout)
		if out.OK() {
			metrics.IncPlaylistTrack(metrics.ResultOK)
			continue
		}
		if ctx.Err() != nil {
			sum.Canceled = true
			break
		}

		sum.Failed = append(sum.Failed, n)
		metrics.IncPlaylistTrack(metrics.ResultFailed)
		p.logger.Error("playlist track failed",
			log.String("playlist", req.Ref),
			log.Int("track", n),
			log.String("sound", track),
			log.Err(out.Err),
		)
		p.emit(req, domain.EventTrackFailed, fmt.Sprintf("Error playing track %d: %v", n, out.Err))
	}

	msg := fmt.Sprintf("Playlist %s completed: %d played, %d skipped, %d failed",
		req.Ref, len(sum.Attempted)-len(sum.Failed), len(sum.Skipped), len(sum.Failed))
	if sum.Canceled {
		msg = fmt.Sprintf("Playlist %s interrupted", req.Ref)
	}
	p.emit(req, domain.EventPlaylistCompleted, msg)
	return sum
}

func (p *Player) emit(req domain.PlaybackRequest, kind domain.EventKind, msg string) {
	p.notifier.Log(domain.Event{
		Kind:      kind,
		Message:   msg,
		Time:      p.now(),
		EntryID:   req.EntryID,
		EntryName: req.EntryName,
	})
}
