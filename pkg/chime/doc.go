// Package chime provides an embeddable time-of-day reminder engine.
//
// Chime reads a schedule of reminders, checks the clock once a second and,
// when a reminder's time of day arrives, plays its sound or playlist
// through a chain of external audio players. Each reminder fires at most
// once per run, or once per day with ResetDaily.
//
// # Basic Usage
//
//	cfg := chime.Config{ScheduleFile: "reminders.csv"}
//
//	c, err := chime.New(cfg, chime.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := c.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//	_ = c.Close(shutdownCtx)
//
// # Schedule Files
//
// The schedule format is picked by extension: CSV (default), YAML or TOML.
// Every row has a time ("HH:MM" or "HH:MM:SS"), a name, and optionally a
// sound path or a playlist name. Rows with an invalid time or an unknown
// playlist are dropped at load and reported by [Chime.Dropped].
//
// # Notifications
//
// Activity-log events (reminder triggered, playback started, track missing
// and so on) are written to the logger and passed to the [Notifier] set with
// [WithNotifier]. Lifecycle changes go to the [EventHandler] set with
// [WithEventHandler].
//
// # Playback
//
// Playback runs on a single worker fed by a bounded FIFO queue, so at most
// one sound is audible at a time. Stop halts the poll loop only; Close
// also drains the queue, stopping in-flight playback when its context ends.
//
// # Plugins
//
// Optional behavior is added with [WithPlugin]:
//
//	import "github.com/bft-labs/chime/plugins/soundwatcher"
//
//	c, err := chime.New(cfg, soundwatcher.WithDefaultSoundWatcher())
package chime
