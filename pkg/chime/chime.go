package chime

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/chime/internal/adapters/fs"
	"github.com/bft-labs/chime/internal/adapters/notify"
	"github.com/bft-labs/chime/internal/app"
	"github.com/bft-labs/chime/internal/audio"
	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/schedule"
	"github.com/bft-labs/chime/internal/tracker"
	"github.com/bft-labs/chime/pkg/log"
)

// Chime is a reminder engine that can be embedded in other applications.
// Use New() to create an instance, then Start() to begin monitoring.
type Chime struct {
	config    Config
	opts      options
	logger    log.Logger
	notifier  Notifier
	schedule  *schedule.Schedule
	dropped   []RowError
	playlists map[string]domain.PlaylistDefinition
	tracker   *tracker.Tracker
	backend   *audio.Backend
	queue     *audio.Queue
	engine    *app.Engine
	plugins   []Plugin

	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
}

// New loads the schedule and wires the engine, the playback queue and the
// audio backend. The instance is created in StateIdle; call Start() to
// begin monitoring. Returns an error if the configuration is invalid, the
// schedule cannot be read, or no reminder in it is valid.
func New(cfg Config, opts ...Option) (*Chime, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	var notifier Notifier = notify.NewLogNotifier(logger)
	if o.notifier != nil {
		notifier = notify.Multi{notifier, o.notifier}
	}

	playlists := cfg.playlistTable()

	rows, err := fs.NewScheduleFile(o.fs, cfg.ScheduleFile).ReadRows()
	if err != nil {
		return nil, err
	}
	sched, dropped, err := schedule.Load(rows, playlists, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ScheduleFile, err)
	}

	mechanisms := o.mechanisms
	if mechanisms == nil {
		mechanisms = audio.DefaultMechanisms(cfg.PrimaryPlayer, cfg.SecondaryPlayer)
	}
	backend := audio.NewBackend(o.fs, mechanisms, logger)
	player := audio.NewPlayer(backend, notifier, logger, cfg.PlaylistTrackTimeout)
	queue := audio.NewQueue(audio.QueueConfig{
		Size:          cfg.QueueSize,
		SingleTimeout: cfg.SingleTrackTimeout,
	}, backend, player, notifier, logger)

	fired := tracker.New()
	engine, err := app.NewEngine(app.EngineConfig{
		PollInterval:         cfg.PollInterval,
		ActiveStatusDuration: cfg.ActiveStatusDuration,
		ResetDaily:           cfg.ResetDaily,
		ShutdownTimeout:      cfg.ShutdownTimeout,
	}, app.EngineDeps{
		Schedule:   sched,
		Playlists:  playlists,
		Tracker:    fired,
		Dispatcher: queue,
		Notifier:   notifier,
		Clock:      o.clock,
		Logger:     logger,
		Emitter:    &eventEmitterWrapper{handler: o.eventHandler},
	})
	if err != nil {
		return nil, err
	}

	return &Chime{
		config:    cfg,
		opts:      o,
		logger:    logger,
		notifier:  notifier,
		schedule:  sched,
		dropped:   dropped,
		playlists: playlists,
		tracker:   fired,
		backend:   backend,
		queue:     queue,
		engine:    engine,
		plugins:   o.plugins,
	}, nil
}

// Start begins monitoring in the background and returns immediately.
// Calling Start while running has no effect. The provided context bounds
// the lifetime of the poll loop and of every plugin.
func (c *Chime) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("start: %w", domain.ErrQueueClosed)
	}
	if c.started {
		if !c.engine.CanStart() {
			return nil
		}
		// The previous run context was canceled; release its plugins first.
		_ = c.stopLocked()
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.queue.Start()

	pluginCfg := PluginConfig{
		ScheduleFile: c.config.ScheduleFile,
		SoundRefs:    c.schedule.SoundRefs(c.playlists),
		Notifier:     c.notifier,
		Logger:       c.logger,
		Fs:           c.opts.fs,
	}
	for i, p := range c.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			c.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			c.shutdownPlugins(c.plugins[:i])
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		c.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	if err := c.engine.Start(runCtx); err != nil {
		cancel()
		c.shutdownPlugins(c.plugins)
		return err
	}

	c.cancel = cancel
	c.started = true
	return nil
}

// Stop halts the poll loop and shuts plugins down in reverse order.
// Queued and in-flight playback continues; use Close to end it.
// Calling Stop while idle has no effect.
func (c *Chime) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *Chime) stopLocked() error {
	if !c.started {
		return nil
	}
	c.started = false

	err := c.engine.Stop()
	c.cancel()
	c.cancel = nil
	c.shutdownPlugins(c.plugins)
	return err
}

// Close stops monitoring, then waits for queued playback to finish until
// ctx expires, at which point in-flight playback is stopped. A closed
// instance cannot be started again.
func (c *Chime) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	stopErr := c.stopLocked()
	previous := convertState(c.engine.State())
	c.closed = true
	c.mu.Unlock()

	closeErr := c.queue.Close(ctx)

	if c.opts.eventHandler != nil {
		c.opts.eventHandler.OnStateChange(StateChangeEvent{
			Previous: previous,
			Current:  StateClosed,
			Reason:   "Close() called",
		})
	}

	if stopErr != nil {
		return stopErr
	}
	return closeErr
}

func (c *Chime) shutdownPlugins(plugins []Plugin) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.ShutdownTimeout)
	defer cancel()

	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			c.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
		} else {
			c.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (c *Chime) Status() State {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return StateClosed
	}
	return convertState(c.engine.State())
}

// Entries returns the loaded reminders in schedule order.
func (c *Chime) Entries() []ReminderEntry {
	return c.schedule.Entries()
}

// Dropped returns the schedule rows that were rejected at load.
func (c *Chime) Dropped() []RowError {
	cp := make([]RowError, len(c.dropped))
	copy(cp, c.dropped)
	return cp
}

// Playlist looks up a playlist by name.
func (c *Chime) Playlist(name string) (PlaylistDefinition, bool) {
	p, ok := c.playlists[name]
	return p, ok
}

// SoundRefs returns every distinct sound file the schedule can play.
func (c *Chime) SoundRefs() []string {
	return c.schedule.SoundRefs(c.playlists)
}

// SoundExists reports whether ref resolves to a regular file.
func (c *Chime) SoundExists(ref string) bool {
	return c.backend.Exists(ref)
}

// Fired returns the IDs of reminders that already fired, sorted.
func (c *Chime) Fired() []string {
	return c.tracker.Snapshot()
}

// ResetFired forgets every fired reminder so each can fire again.
func (c *Chime) ResetFired() {
	c.tracker.Reset()
	c.logger.Info("fired reminders reset")
}
