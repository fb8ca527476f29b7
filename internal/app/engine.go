package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/chime/internal/clock"
	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/metrics"
	"github.com/bft-labs/chime/internal/ports"
	"github.com/bft-labs/chime/internal/schedule"
	"github.com/bft-labs/chime/pkg/log"
)

// Engine defaults.
const (
	DefaultPollInterval         = time.Second
	DefaultActiveStatusDuration = 5 * time.Second

	// MaxCatchUp bounds how many past seconds one tick re-checks after a
	// late or dropped tick.
	MaxCatchUp = 5 * time.Second
)

// EngineConfig contains configuration for the poll loop.
type EngineConfig struct {
	PollInterval         time.Duration
	ActiveStatusDuration time.Duration

	// ResetDaily clears the fired set when the calendar date changes, so
	// every reminder fires again the next day.
	ResetDaily bool

	ShutdownTimeout time.Duration
}

func (c *EngineConfig) setDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ActiveStatusDuration <= 0 {
		c.ActiveStatusDuration = DefaultActiveStatusDuration
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = ShutdownTimeout
	}
}

// EngineDeps are the collaborators of an Engine. Schedule and Dispatcher
// are required.
type EngineDeps struct {
	Schedule   *schedule.Schedule
	Playlists  map[string]domain.PlaylistDefinition
	Tracker    ports.FiredTracker
	Dispatcher ports.Dispatcher
	Notifier   ports.Notifier
	Clock      clock.Clock
	Logger     log.Logger
	Emitter    EventEmitter
}

// Engine polls the clock and fires reminders whose time of day matches.
// Each reminder ID fires at most once until the tracker is reset.
type Engine struct {
	config     EngineConfig
	schedule   *schedule.Schedule
	playlists  map[string]domain.PlaylistDefinition
	tracker    ports.FiredTracker
	dispatcher ports.Dispatcher
	notifier   ports.Notifier
	clock      clock.Clock
	logger     log.Logger
	lifecycle  *Lifecycle

	// opMu serializes Start and Stop.
	opMu sync.Mutex

	// tickMu guards lastDay and lastChecked and keeps ticks from overlapping.
	tickMu      sync.Mutex
	lastDay     time.Time
	lastChecked time.Time

	statusMu    sync.Mutex
	statusTimer clock.Timer
}

// NewEngine creates an Engine in StateIdle.
func NewEngine(cfg EngineConfig, deps EngineDeps) (*Engine, error) {
	if deps.Schedule == nil {
		return nil, fmt.Errorf("%w: engine needs a schedule", domain.ErrInvalidConfig)
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("%w: engine needs a dispatcher", domain.ErrInvalidConfig)
	}
	cfg.setDefaults()

	if deps.Logger == nil {
		deps.Logger = log.NewNoopLogger()
	}
	if deps.Notifier == nil {
		deps.Notifier = ports.NotifierFunc(func(domain.Event) {})
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Playlists == nil {
		deps.Playlists = domain.DefaultPlaylists()
	}
	if deps.Tracker == nil {
		return nil, fmt.Errorf("%w: engine needs a fired tracker", domain.ErrInvalidConfig)
	}

	return &Engine{
		config:     cfg,
		schedule:   deps.Schedule,
		playlists:  deps.Playlists,
		tracker:    deps.Tracker,
		dispatcher: deps.Dispatcher,
		notifier:   deps.Notifier,
		clock:      deps.Clock,
		logger:     deps.Logger,
		lifecycle:  NewLifecycle(deps.Logger, deps.Emitter),
	}, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.lifecycle.State()
}

// CanStart reports whether Start would launch a new poll loop.
func (e *Engine) CanStart() bool {
	return e.lifecycle.CanStart()
}

// Start launches the poll loop. Calling Start while running is a no-op.
// The loop also ends when ctx is canceled.
func (e *Engine) Start(ctx context.Context) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if !e.lifecycle.CanStart() {
		e.logger.Debug("engine already running")
		return nil
	}
	if err := e.lifecycle.TransitionTo(StateRunning, "Start() called"); err != nil {
		if errors.Is(err, domain.ErrAlreadyRunning) {
			e.logger.Debug("engine already running")
			return nil
		}
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.lifecycle.SetCancel(cancel)

	ticker := e.clock.NewTicker(e.config.PollInterval)
	e.lifecycle.AddWorker()
	go e.run(runCtx, ticker)

	e.logger.Info("monitoring started",
		log.Int("reminders", e.schedule.Len()),
		log.Duration("poll_interval", e.config.PollInterval),
		log.Bool("reset_daily", e.config.ResetDaily),
	)
	e.emit(domain.EventMonitoringStarted, "Reminder monitoring started", domain.ReminderEntry{})
	return nil
}

// Stop halts the poll loop and waits for it to exit. Calling Stop while
// idle is a no-op. Playback already handed to the dispatcher continues.
func (e *Engine) Stop() error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if !e.lifecycle.CanStop() {
		return nil
	}
	if err := e.lifecycle.TransitionTo(StateIdle, "Stop() called"); err != nil {
		if errors.Is(err, domain.ErrNotRunning) {
			return nil
		}
		return err
	}

	e.lifecycle.Cancel()
	err := e.lifecycle.WaitWithTimeout(e.config.ShutdownTimeout)

	e.statusMu.Lock()
	if e.statusTimer != nil {
		e.statusTimer.Stop()
		e.statusTimer = nil
	}
	e.statusMu.Unlock()

	e.emit(domain.EventMonitoringStopped, "Reminder monitoring stopped", domain.ReminderEntry{})
	return err
}

func (e *Engine) run(ctx context.Context, ticker clock.Ticker) {
	defer e.lifecycle.WorkerDone()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.lifecycle.Cancel()
			if err := e.lifecycle.TransitionTo(StateIdle, "context canceled"); err == nil {
				e.emit(domain.EventMonitoringStopped, "Reminder monitoring stopped", domain.ReminderEntry{})
			}
			return
		case now := <-ticker.C():
			e.tick(now)
		}
	}
}

// tick fires every due reminder for the time of day of now. A panic is
// recovered and reported so the loop keeps running.
func (e *Engine) tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IncPanic("engine")
			e.logger.Error("tick panicked", log.Any("panic", r), log.String("time", now.Format(time.TimeOnly)))
			e.emit(domain.EventTickFailed, fmt.Sprintf("Reminder check failed: %v", r), domain.ReminderEntry{})
		}
	}()

	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	// A late or dropped tick skips a second; check every second since the
	// previous tick, bounded by MaxCatchUp.
	sec := now.Truncate(time.Second)
	from := sec
	if !e.lastChecked.IsZero() && sec.After(e.lastChecked) {
		from = e.lastChecked.Add(time.Second)
		if earliest := sec.Add(-MaxCatchUp); from.Before(earliest) {
			e.logger.Warn("poll loop fell behind, skipping seconds",
				log.String("from", from.Format(time.TimeOnly)),
				log.String("to", earliest.Format(time.TimeOnly)),
			)
			from = earliest
		}
	}
	e.lastChecked = sec

	for s := from; !s.After(sec); s = s.Add(time.Second) {
		e.check(s, now)
	}
}

// check fires every reminder due at second s that has not fired yet.
func (e *Engine) check(s, now time.Time) {
	if e.config.ResetDaily {
		e.rollover(s)
	}

	tod := domain.TimeOfDayOf(s)
	e.schedule.Each(func(entry domain.ReminderEntry) {
		if entry.Time != tod || e.tracker.HasFired(entry.ID) {
			return
		}
		e.fire(entry, now)
	})
}

func (e *Engine) rollover(now time.Time) {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if !e.lastDay.IsZero() && !day.Equal(e.lastDay) {
		e.tracker.Reset()
		e.logger.Info("new day, fired reminders reset", log.String("date", day.Format(time.DateOnly)))
		e.emit(domain.EventTrackerReset, "New day: all reminders re-armed", domain.ReminderEntry{})
	}
	e.lastDay = day
}

func (e *Engine) fire(entry domain.ReminderEntry, now time.Time) {
	e.tracker.MarkFired(entry.ID)
	e.emit(domain.EventTriggered, fmt.Sprintf("Reminder triggered: %s at %s", entry.Name, entry.ID), entry)

	var (
		req    domain.PlaybackRequest
		target string
	)
	switch {
	case entry.PlaylistRef != "":
		pl, ok := e.playlists[entry.PlaylistRef]
		if !ok {
			metrics.IncFired("none")
			e.emit(domain.EventNoSoundConfigured, fmt.Sprintf("Unknown playlist %q for this reminder", entry.PlaylistRef), entry)
			break
		}
		req = domain.NewPlaylistRequest(entry, pl, now)
		target = domain.TargetPlaylist.String()
		e.emit(domain.EventDispatched, fmt.Sprintf("Starting playlist %s: %d tracks", pl.Name, len(pl.Tracks)), entry)
	case entry.SoundRef != "":
		req = domain.NewSingleRequest(entry, now)
		target = domain.TargetSingle.String()
		e.emit(domain.EventDispatched, fmt.Sprintf("Playing sound: %s", entry.SoundRef), entry)
	default:
		metrics.IncFired("none")
		e.emit(domain.EventNoSoundConfigured, "No sound file specified for this reminder", entry)
	}

	if target != "" {
		metrics.IncFired(target)
		if err := e.dispatcher.Dispatch(req); err != nil {
			e.logger.Warn("playback request dropped",
				log.String("entry", entry.Name),
				log.String("request", req.ID),
				log.Err(err),
			)
			e.emit(domain.EventDispatchDropped, fmt.Sprintf("Playback skipped for %s: %v", entry.Name, err), entry)
		}
	}

	e.setActive(entry)
}

// setActive reports the reminder as active, reverting to idle after
// ActiveStatusDuration. A newer trigger replaces the pending revert.
func (e *Engine) setActive(entry domain.ReminderEntry) {
	e.emit(domain.EventStatusActive, fmt.Sprintf("%s - ACTIVE", entry.Name), entry)

	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	if e.statusTimer != nil {
		e.statusTimer.Stop()
	}
	e.statusTimer = e.clock.AfterFunc(e.config.ActiveStatusDuration, func() {
		e.emit(domain.EventStatusIdle, "Monitoring active", domain.ReminderEntry{})
	})
}

func (e *Engine) emit(kind domain.EventKind, msg string, entry domain.ReminderEntry) {
	e.notifier.Log(domain.Event{
		Kind:      kind,
		Message:   msg,
		Time:      e.clock.Now(),
		EntryID:   entry.ID,
		EntryName: entry.Name,
	})
}
