package soundwatcher

import "github.com/bft-labs/chime/pkg/chime"

// WithSoundWatcher returns a chime Option that enables sound file watching.
//
// Usage:
//
//	c, err := chime.New(cfg,
//	    soundwatcher.WithSoundWatcher(soundwatcher.Config{
//	        DebounceDelay: 500 * time.Millisecond,
//	    }),
//	)
func WithSoundWatcher(cfg Config) chime.Option {
	return chime.WithPlugin(New(cfg))
}

// WithDefaultSoundWatcher returns a chime Option that enables sound
// watching with default settings.
func WithDefaultSoundWatcher() chime.Option {
	return WithSoundWatcher(DefaultConfig())
}
