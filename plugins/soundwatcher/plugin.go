// Package soundwatcher provides sound file monitoring for chime.
// When enabled, it watches the directories of every sound the schedule
// references and reports files that disappear or come back.
package soundwatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/bft-labs/chime/internal/metrics"
	"github.com/bft-labs/chime/pkg/chime"
	"github.com/bft-labs/chime/pkg/log"
)

// DefaultDebounceDelay is how long a file must stay quiet before its state
// is re-checked.
const DefaultDebounceDelay = 250 * time.Millisecond

// Plugin implements sound file watching.
// Removing or renaming a referenced file emits a sound-missing event;
// creating or rewriting it emits sound-restored.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	debounceDelay time.Duration

	// Runtime state
	logger   chime.Logger
	notifier chime.Notifier
	fs       afero.Fs
	paths    map[string]string // absolute path -> sound ref
	present  map[string]bool   // sound ref -> last known existence
	timers   map[string]*time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Config holds configuration options for the sound watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before
	// checking it. Editors and copies produce bursts of events.
	// Default: 250 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: DefaultDebounceDelay}
}

// New creates a new sound watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "soundwatcher"
}

// Initialize reports sounds that are already missing and starts watching.
func (p *Plugin) Initialize(ctx context.Context, cfg chime.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	p.notifier = cfg.Notifier
	p.fs = cfg.Fs
	if p.fs == nil {
		p.fs = afero.NewOsFs()
	}
	p.paths = make(map[string]string, len(cfg.SoundRefs))
	p.present = make(map[string]bool, len(cfg.SoundRefs))
	p.timers = make(map[string]*time.Timer)
	p.mu.Unlock()

	if len(cfg.SoundRefs) == 0 {
		p.logger.Warn("sound watcher disabled: schedule references no sounds")
		return nil
	}

	dirs := make(map[string]bool)
	missing := 0
	for _, ref := range cfg.SoundRefs {
		abs, err := filepath.Abs(ref)
		if err != nil {
			p.logger.Warn("sound watcher: cannot resolve path", log.String("sound", ref), log.Err(err))
			continue
		}
		p.paths[abs] = ref
		dirs[filepath.Dir(abs)] = true

		ok := p.exists(ref)
		p.present[ref] = ok
		if !ok {
			missing++
			p.emit(chime.EventSoundMissing, ref)
		}
	}
	metrics.SoundsMissing.Set(float64(missing))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	watched := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			p.logger.Warn("sound watcher: failed to watch directory", log.String("dir", dir), log.Err(err))
			continue
		}
		watched++
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.logger.Info("sound watcher plugin initialized",
		log.Int("sounds", len(p.paths)),
		log.Int("directories", watched),
		log.Int("missing", missing),
	)

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the watcher and any pending checks.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	for ref, t := range p.timers {
		t.Stop()
		delete(p.timers, ref)
	}
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// watchLoop dispatches fsnotify events for referenced files.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			ref, tracked := p.paths[filepath.Clean(event.Name)]
			if !tracked {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceCheck(ctx, ref)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("sound watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceCheck(ctx context.Context, ref string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.timers[ref]; ok {
		t.Stop()
	}
	p.timers[ref] = time.AfterFunc(p.debounceDelay, func() {
		p.check(ctx, ref)
	})
}

// check re-reads the existence of ref and emits an event on change.
func (p *Plugin) check(ctx context.Context, ref string) {
	if ctx.Err() != nil {
		return
	}
	now := p.exists(ref)

	p.mu.Lock()
	delete(p.timers, ref)
	was := p.present[ref]
	p.present[ref] = now
	p.mu.Unlock()

	if was == now {
		return
	}
	if now {
		metrics.SoundsMissing.Dec()
		p.logger.Info("sound file restored", log.String("sound", ref))
		p.emit(chime.EventSoundRestored, ref)
		return
	}
	metrics.SoundsMissing.Inc()
	p.logger.Warn("sound file missing", log.String("sound", ref))
	p.emit(chime.EventSoundMissing, ref)
}

func (p *Plugin) exists(ref string) bool {
	info, err := p.fs.Stat(ref)
	return err == nil && !info.IsDir()
}

func (p *Plugin) emit(kind chime.EventKind, ref string) {
	if p.notifier == nil {
		return
	}
	msg := "Sound file restored: " + ref
	if kind == chime.EventSoundMissing {
		msg = "Sound file missing: " + ref
	}
	p.notifier.Log(chime.Event{Kind: kind, Message: msg, Time: time.Now()})
}

// Missing returns the referenced sounds currently known to be absent.
func (p *Plugin) Missing() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for ref, ok := range p.present {
		if !ok {
			out = append(out, ref)
		}
	}
	return out
}

// Ensure Plugin implements chime.Plugin.
var _ chime.Plugin = (*Plugin)(nil)
