package audio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/ports"
)

func TestBackend_UnplayableRefSkipsMechanisms(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{name: "missing file", ref: "sounds/none.mp3"},
		{name: "directory", ref: "sounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMechanism{name: "primary", started: true}
			b := NewBackend(memFs(t, "sounds/bell.mp3"), []ports.Mechanism{m}, nil)

			out := b.PlaySingle(context.Background(), tt.ref, time.Second)

			assert.False(t, out.OK())
			assert.ErrorIs(t, out.Err, domain.ErrSoundNotFound)
			assert.Empty(t, m.Calls())
		})
	}
}

func TestBackend_Fallback(t *testing.T) {
	primary := &fakeMechanism{name: "primary", err: errors.New("exec: not found")}
	secondary := &fakeMechanism{name: "secondary", started: true}
	tertiary := &fakeMechanism{name: "tertiary", started: true}
	b := NewBackend(memFs(t, "bell.mp3"), []ports.Mechanism{primary, secondary, tertiary}, nil)

	out := b.PlaySingle(context.Background(), "bell.mp3", time.Second)

	require.True(t, out.OK(), "err = %v", out.Err)
	assert.Equal(t, "secondary", out.Mechanism)
	assert.Len(t, out.Attempts, 2)
	assert.Empty(t, tertiary.Calls())
}

func TestBackend_AllFail(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	b := NewBackend(memFs(t, "bell.mp3"), []ports.Mechanism{
		&fakeMechanism{name: "a", err: errA},
		&fakeMechanism{name: "b", started: true, err: errB},
	}, nil)

	out := b.PlaySingle(context.Background(), "bell.mp3", time.Second)

	assert.ErrorIs(t, out.Err, domain.ErrAllMechanismsFailed)
	assert.ErrorIs(t, out.Err, errA)
	assert.ErrorIs(t, out.Err, errB)
	assert.Len(t, out.Attempts, 2)
}

func TestBackend_NoMechanisms(t *testing.T) {
	b := NewBackend(memFs(t, "bell.mp3"), nil, nil)

	out := b.PlaySingle(context.Background(), "bell.mp3", time.Second)

	assert.ErrorIs(t, out.Err, domain.ErrAllMechanismsFailed)
}

func TestBackend_TimeoutAfterStartIsSuccess(t *testing.T) {
	slow := &fakeMechanism{name: "slow", block: true}
	next := &fakeMechanism{name: "next", started: true}
	b := NewBackend(memFs(t, "long.mp3"), []ports.Mechanism{slow, next}, nil)

	out := b.PlaySingle(context.Background(), "long.mp3", 20*time.Millisecond)

	require.True(t, out.OK(), "err = %v", out.Err)
	assert.True(t, out.TimedOut)
	assert.Equal(t, "slow", out.Mechanism)
	assert.Empty(t, next.Calls())
}

func TestBackend_ParentCancelStopsChain(t *testing.T) {
	slow := &fakeMechanism{name: "slow", block: true}
	next := &fakeMechanism{name: "next", started: true}
	b := NewBackend(memFs(t, "long.mp3"), []ports.Mechanism{slow, next}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	out := b.PlaySingle(ctx, "long.mp3", time.Minute)

	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Empty(t, next.Calls())
}

func TestBackend_Exists(t *testing.T) {
	fs := memFs(t, "sounds/bell.mp3")
	b := NewBackend(fs, nil, nil)

	assert.True(t, b.Exists("sounds/bell.mp3"))
	assert.False(t, b.Exists("sounds"))
	assert.False(t, b.Exists("sounds/none.mp3"))
}
