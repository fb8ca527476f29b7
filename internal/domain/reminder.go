package domain

// ReminderEntry is a scheduled reminder. It is immutable after load.
type ReminderEntry struct {
	// ID is the raw time string exactly as written in the schedule.
	// It is the dedup key: entries with identical raw time strings share it.
	ID string

	// Name is the display label.
	Name string

	// Time is the parsed time of day.
	Time TimeOfDay

	// SoundRef is the path of a single sound file (optional).
	SoundRef string

	// PlaylistRef names a PlaylistDefinition (optional). When set it takes
	// precedence over SoundRef.
	PlaylistRef string
}

// HasSound reports whether the entry has anything to play.
func (e ReminderEntry) HasSound() bool {
	return e.SoundRef != "" || e.PlaylistRef != ""
}

// PlaylistDefinition is an ordered list of track references.
type PlaylistDefinition struct {
	Name   string
	Tracks []string
}

// DefaultPlaylistName is the name of the built-in playlist.
const DefaultPlaylistName = "pirith"

// DefaultPlaylists returns the built-in playlist table.
func DefaultPlaylists() map[string]PlaylistDefinition {
	return map[string]PlaylistDefinition{
		DefaultPlaylistName: {
			Name: DefaultPlaylistName,
			Tracks: []string{
				"karaneeya-meththa-suthraya.mp3",
				"jaya-piritha-pirith.mp3",
				"mora-piritha-pirith.mp3",
				"surya-piritha-sinhala-pirith.mp3",
				"dasa-disa-piritha-pirith.mp3",
				"rathnamali-gatha-rathnaya-pirith.mp3",
				"dutugemunu-arakshaka-gatha-pirith.mp3",
			},
		},
	}
}
