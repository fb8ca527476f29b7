package chime

import (
	"context"

	"github.com/spf13/afero"
)

// Plugin extends a Chime instance with optional behavior.
// Plugins are initialized by Start in registration order and shut down by
// Stop in reverse order.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize starts the plugin. ctx is canceled when the instance stops.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and releases its resources.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin receives on Initialize.
type PluginConfig struct {
	// ScheduleFile is the loaded schedule path.
	ScheduleFile string

	// SoundRefs lists every distinct sound and playlist track referenced by
	// the schedule, in first-seen order.
	SoundRefs []string

	// Notifier receives events the plugin produces.
	Notifier Notifier

	// Logger is the instance logger.
	Logger Logger

	// Fs is the filesystem sounds are resolved against.
	Fs afero.Fs
}

// BasePlugin provides no-op Initialize and Shutdown for embedding.
type BasePlugin struct{}

// Initialize does nothing.
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(context.Context) error { return nil }
