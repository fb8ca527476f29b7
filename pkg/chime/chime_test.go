package chime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bft-labs/chime/internal/clock"
	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/pkg/chime"
)

// recordingMechanism records every path it is asked to play.
type recordingMechanism struct {
	mu    sync.Mutex
	paths []string
}

func (m *recordingMechanism) Name() string { return "recorder" }

func (m *recordingMechanism) Play(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	return true, nil
}

func (m *recordingMechanism) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []chime.Event
}

func (r *eventRecorder) Log(e chime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) Kinds() []chime.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]chime.EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// orderPlugin records Initialize and Shutdown calls into a shared log.
type orderPlugin struct {
	chime.BasePlugin
	name    string
	mu      *sync.Mutex
	log     *[]string
	initErr error
	cfg     chime.PluginConfig
}

func (p *orderPlugin) Name() string { return p.name }

func (p *orderPlugin) Initialize(ctx context.Context, cfg chime.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return p.initErr
	}
	p.cfg = cfg
	*p.log = append(*p.log, "init:"+p.name)
	return nil
}

func (p *orderPlugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.log = append(*p.log, "shutdown:"+p.name)
	return nil
}

const scheduleCSV = `time,name,sound,playlist
07:00,Morning,bell.mp3,
25:00,Broken,bell.mp3,
21:00:00,Evening,,evening
`

func newFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "reminders.csv", []byte(scheduleCSV), 0o644))
	require.NoError(t, afero.WriteFile(fs, "bell.mp3", []byte("ID3"), 0o644))
	return fs
}

func baseConfig() chime.Config {
	return chime.Config{
		ScheduleFile: "reminders.csv",
		Playlists:    map[string][]string{"evening": {"a.mp3", "b.mp3"}},
	}
}

func TestNew_LoadsSchedule(t *testing.T) {
	c, err := chime.New(baseConfig(), chime.WithFs(newFs(t)))
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Morning", entries[0].Name)
	assert.Equal(t, "evening", entries[1].PlaylistRef)

	dropped := c.Dropped()
	require.Len(t, dropped, 1)
	assert.ErrorIs(t, dropped[0], domain.ErrInvalidTime)

	assert.Equal(t, []string{"bell.mp3", "a.mp3", "b.mp3"}, c.SoundRefs())
	assert.True(t, c.SoundExists("bell.mp3"))
	assert.False(t, c.SoundExists("a.mp3"))

	pl, ok := c.Playlist(domain.DefaultPlaylistName)
	assert.True(t, ok)
	assert.NotEmpty(t, pl.Tracks)
	assert.Equal(t, chime.StateIdle, c.Status())
}

func TestNew_PlaylistOverride(t *testing.T) {
	cfg := baseConfig()
	cfg.Playlists[domain.DefaultPlaylistName] = []string{"override.mp3"}

	c, err := chime.New(cfg, chime.WithFs(newFs(t)))
	require.NoError(t, err)

	pl, ok := c.Playlist(domain.DefaultPlaylistName)
	require.True(t, ok)
	assert.Equal(t, []string{"override.mp3"}, pl.Tracks)

	pl, ok = c.Playlist("evening")
	require.True(t, ok)
	assert.Equal(t, "evening", pl.Name)
	assert.Len(t, pl.Tracks, 2)
}

func TestNew_Errors(t *testing.T) {
	t.Run("missing schedule", func(t *testing.T) {
		_, err := chime.New(baseConfig(), chime.WithFs(afero.NewMemMapFs()))
		assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
	})

	t.Run("no valid rows", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "reminders.csv", []byte("time,name\nnope,Bad\n"), 0o644))
		_, err := chime.New(baseConfig(), chime.WithFs(fs))
		assert.ErrorIs(t, err, domain.ErrEmptySchedule)
	})

	t.Run("poll too slow", func(t *testing.T) {
		cfg := baseConfig()
		cfg.PollInterval = 5 * time.Second
		_, err := chime.New(cfg, chime.WithFs(newFs(t)))
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestChime_FiresAndPlays(t *testing.T) {
	defer goleak.VerifyNone(t)

	fake := clock.NewFake(time.Date(2024, 3, 10, 6, 59, 59, 0, time.Local))
	mech := &recordingMechanism{}
	events := &eventRecorder{}

	var mu sync.Mutex
	var calls []string
	first := &orderPlugin{name: "first", mu: &mu, log: &calls}
	second := &orderPlugin{name: "second", mu: &mu, log: &calls}

	c, err := chime.New(baseConfig(),
		chime.WithFs(newFs(t)),
		chime.WithClock(fake),
		chime.WithMechanisms(mech),
		chime.WithNotifier(events),
		chime.WithPlugin(first),
		chime.WithPlugin(second),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Start(ctx), "second Start is a no-op")
	assert.Equal(t, chime.StateRunning, c.Status())

	fake.Advance(time.Second)

	require.Eventually(t, func() bool {
		return len(mech.Paths()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"bell.mp3"}, mech.Paths())
	assert.Equal(t, []string{"07:00"}, c.Fired())
	assert.Contains(t, events.Kinds(), chime.EventTriggered)

	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop(), "second Stop is a no-op")
	assert.Equal(t, chime.StateIdle, c.Status())

	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, c.Close(closeCtx))
	assert.Equal(t, chime.StateClosed, c.Status())

	mu.Lock()
	assert.Equal(t, []string{"init:first", "init:second", "shutdown:second", "shutdown:first"}, calls)
	mu.Unlock()
	assert.Equal(t, []string{"bell.mp3", "a.mp3", "b.mp3"}, first.cfg.SoundRefs)

	err = c.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrQueueClosed)
}

func TestChime_RestartAfterContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	var calls []string
	p := &orderPlugin{name: "p", mu: &mu, log: &calls}

	c, err := chime.New(baseConfig(),
		chime.WithFs(newFs(t)),
		chime.WithClock(clock.NewFake(time.Date(2024, 3, 10, 6, 0, 0, 0, time.Local))),
		chime.WithMechanisms(&recordingMechanism{}),
		chime.WithPlugin(p),
	)
	require.NoError(t, err)

	runCtx, cancelRun := context.WithCancel(context.Background())
	require.NoError(t, c.Start(runCtx))
	cancelRun()
	require.Eventually(t, func() bool { return c.Status() == chime.StateIdle },
		time.Second, 5*time.Millisecond)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, chime.StateRunning, c.Status())

	require.NoError(t, c.Close(context.Background()))
	mu.Lock()
	assert.Equal(t, []string{"init:p", "shutdown:p", "init:p", "shutdown:p"}, calls)
	mu.Unlock()
}

func TestChime_PluginInitFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	var calls []string
	good := &orderPlugin{name: "good", mu: &mu, log: &calls}
	bad := &orderPlugin{name: "bad", mu: &mu, log: &calls, initErr: errors.New("boom")}

	c, err := chime.New(baseConfig(),
		chime.WithFs(newFs(t)),
		chime.WithMechanisms(&recordingMechanism{}),
		chime.WithPlugin(good),
		chime.WithPlugin(bad),
	)
	require.NoError(t, err)

	err = c.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin bad")
	assert.Equal(t, chime.StateIdle, c.Status())

	mu.Lock()
	assert.Equal(t, []string{"init:good", "shutdown:good"}, calls)
	mu.Unlock()

	require.NoError(t, c.Close(context.Background()))
}

func TestChime_ResetFired(t *testing.T) {
	defer goleak.VerifyNone(t)

	fake := clock.NewFake(time.Date(2024, 3, 10, 6, 59, 59, 0, time.Local))
	mech := &recordingMechanism{}

	c, err := chime.New(baseConfig(),
		chime.WithFs(newFs(t)),
		chime.WithClock(fake),
		chime.WithMechanisms(mech),
	)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	fake.Advance(time.Second)
	require.Eventually(t, func() bool { return len(c.Fired()) == 1 }, 2*time.Second, 10*time.Millisecond)

	c.ResetFired()
	assert.Empty(t, c.Fired())

	require.NoError(t, c.Close(context.Background()))
}

type stateRecorder struct {
	chime.BaseEventHandler
	mu     sync.Mutex
	states []chime.State
}

func (r *stateRecorder) OnStateChange(e chime.StateChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, e.Current)
}

func TestChime_EventHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &stateRecorder{}
	c, err := chime.New(baseConfig(),
		chime.WithFs(newFs(t)),
		chime.WithMechanisms(&recordingMechanism{}),
		chime.WithEventHandler(rec),
	)
	require.NoError(t, err)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Close(context.Background()))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []chime.State{chime.StateRunning, chime.StateIdle, chime.StateClosed}, rec.states)
}
