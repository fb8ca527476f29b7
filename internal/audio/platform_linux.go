package audio

// platformFallback plays through ALSA, falling back to PulseAudio.
func platformFallback() *Command {
	return NewCommandFunc("aplay", func(path string) []string {
		return []string{"sh", "-c", `aplay -q "$1" 2>/dev/null || paplay "$1"`, "sh", path}
	})
}
