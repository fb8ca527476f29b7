//go:build !linux && !darwin && !windows

package audio

func platformFallback() *Command {
	return nil
}
