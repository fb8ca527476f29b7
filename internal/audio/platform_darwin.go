package audio

func platformFallback() *Command {
	return NewCommand("afplay", "afplay")
}
