package chime

import (
	"github.com/spf13/afero"

	"github.com/bft-labs/chime/internal/clock"
	"github.com/bft-labs/chime/pkg/log"
)

// Option configures optional behavior of Chime.
type Option func(*options)

// options holds the optional configuration for a Chime instance.
type options struct {
	logger       log.Logger
	notifier     Notifier
	eventHandler EventHandler
	clock        clock.Clock
	fs           afero.Fs
	mechanisms   []Mechanism
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
		clock:  clock.Real{},
		fs:     afero.NewOsFs(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNotifier sets the receiver of activity-log events. Events are also
// written to the logger.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithEventHandler sets a handler for lifecycle state changes.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithClock replaces the wall clock. Intended for tests.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithFs sets the filesystem used to read the schedule and check sounds.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithMechanisms replaces the audio fallback chain.
func WithMechanisms(m ...Mechanism) Option {
	return func(o *options) {
		o.mechanisms = m
	}
}

// WithPlugin registers a plugin to be initialized when Chime starts.
// Plugins are initialized in registration order and shut down in reverse.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
