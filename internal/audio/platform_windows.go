package audio

import "strings"

// platformFallback uses the .NET SoundPlayer through PowerShell. SoundPlayer
// only handles WAV files; other formats fail and are reported as such.
func platformFallback() *Command {
	return NewCommandFunc("soundplayer", func(path string) []string {
		quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
		return []string{
			"powershell", "-NoProfile", "-NonInteractive", "-Command",
			"(New-Object Media.SoundPlayer " + quoted + ").PlaySync()",
		}
	})
}
