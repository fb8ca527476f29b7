package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/metrics"
	"github.com/bft-labs/chime/internal/ports"
	"github.com/bft-labs/chime/pkg/log"
)

// DefaultQueueSize is the default number of requests that may wait.
const DefaultQueueSize = 16

// QueueConfig configures a Queue.
type QueueConfig struct {
	// Size is the number of requests that may wait behind the one playing.
	Size int

	// SingleTimeout bounds single-track playback.
	SingleTimeout time.Duration
}

// Queue is the single owner of audio playback. Requests are played one at
// a time in the order they were dispatched.
type Queue struct {
	cfg      QueueConfig
	backend  *Backend
	player   *Player
	notifier ports.Notifier
	logger   log.Logger

	ch     chan domain.PlaybackRequest
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewQueue creates a Queue. Call Start to begin playing.
func NewQueue(cfg QueueConfig, backend *Backend, player *Player, notifier ports.Notifier, logger log.Logger) *Queue {
	if cfg.Size <= 0 {
		cfg.Size = DefaultQueueSize
	}
	if cfg.SingleTimeout <= 0 {
		cfg.SingleTimeout = DefaultSingleTimeout
	}
	if notifier == nil {
		notifier = ports.NotifierFunc(func(domain.Event) {})
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		cfg:      cfg,
		backend:  backend,
		player:   player,
		notifier: notifier,
		logger:   logger,
		ch:       make(chan domain.PlaybackRequest, cfg.Size),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start launches the worker. Calling Start more than once has no effect.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	go q.run()
}

// Dispatch enqueues req without blocking. It returns domain.ErrQueueFull
// when the buffer is full and domain.ErrQueueClosed after Close.
func (q *Queue) Dispatch(req domain.PlaybackRequest) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.IncDropped("closed")
		return domain.ErrQueueClosed
	}
	metrics.QueueDepth.Inc()
	select {
	case q.ch <- req:
		return nil
	default:
		metrics.QueueDepth.Dec()
		metrics.IncDropped("full")
		return domain.ErrQueueFull
	}
}

// Len returns the number of waiting requests.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops intake and waits for queued playback to finish. When ctx
// ends first, in-flight playback is stopped and the remaining requests are
// discarded; Close then returns ctx.Err().
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return nil
	}
	q.closed = true
	close(q.ch)
	started := q.started
	q.mu.Unlock()

	if !started {
		q.cancel()
		for range q.ch {
			metrics.QueueDepth.Dec()
		}
		close(q.done)
		return nil
	}

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.logger.Warn("close deadline reached, stopping playback",
			log.Int("discarded", q.Len()),
		)
		q.cancel()
		<-q.done
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for req := range q.ch {
		metrics.QueueDepth.Dec()
		if q.ctx.Err() != nil {
			q.logger.Debug("discarding playback request after shutdown",
				log.String("request", req.ID),
				log.String("entry", req.EntryName),
			)
			continue
		}
		q.handle(req)
	}
}

func (q *Queue) handle(req domain.PlaybackRequest) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IncPanic("queue")
			q.logger.Error("playback panicked",
				log.String("request", req.ID),
				log.Any("panic", r),
			)
			q.emit(req, domain.EventPlaybackFailed, fmt.Sprintf("Playback error: %v", r))
		}
	}()

	q.logger.Debug("playback started",
		log.String("request", req.ID),
		log.String("target", req.Target.String()),
		log.String("ref", req.Ref),
		log.Duration("queued_for", time.Since(req.RequestedAt)),
	)

	if req.Target == domain.TargetPlaylist {
		q.player.play(q.ctx, req)
		return
	}

	q.emit(req, domain.EventPlaybackStarted, fmt.Sprintf("Playing sound: %s", req.Ref))
	out := q.backend.PlaySingle(q.ctx, req.Ref, q.cfg.SingleTimeout)
	switch {
	case out.OK():
		msg := fmt.Sprintf("Sound played successfully with %s", out.Mechanism)
		if out.TimedOut {
			msg = fmt.Sprintf("Sound stopped after %s with %s", q.cfg.SingleTimeout, out.Mechanism)
		}
		q.emit(req, domain.EventPlaybackFinished, msg)
	case errors.Is(out.Err, domain.ErrSoundNotFound):
		q.logger.Warn("sound file not found", log.String("sound", req.Ref))
		q.emit(req, domain.EventSoundMissing, fmt.Sprintf("Sound file not found: %s", req.Ref))
	case errors.Is(out.Err, context.Canceled):
		q.emit(req, domain.EventPlaybackFailed, fmt.Sprintf("Playback interrupted: %s", req.Ref))
	default:
		q.logger.Error("all playback mechanisms failed",
			log.String("sound", req.Ref),
			log.Int("attempts", len(out.Attempts)),
			log.Err(out.Err),
		)
		q.emit(req, domain.EventPlaybackFailed, fmt.Sprintf("All sound playing methods failed: %s", req.Ref))
	}
}

func (q *Queue) emit(req domain.PlaybackRequest, kind domain.EventKind, msg string) {
	q.notifier.Log(domain.Event{
		Kind:      kind,
		Message:   msg,
		Time:      time.Now(),
		EntryID:   req.EntryID,
		EntryName: req.EntryName,
	})
}

var _ ports.Dispatcher = (*Queue)(nil)
