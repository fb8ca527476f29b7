// Package domain contains the core entities and value objects for chime.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (audio commands, file system, logging) and holds
// only the data model and its invariants.
//
// # Entities
//
//   - [TimeOfDay]: a wall-clock time without a date, at second resolution
//   - [ReminderEntry]: a scheduled time-of-day with a name and an optional sound or playlist
//   - [PlaylistDefinition]: an ordered list of tracks played back-to-back
//   - [PlaybackRequest]: a single unit of work handed from the engine to the playback queue
//   - [Event]: a notification produced for the activity log
package domain
