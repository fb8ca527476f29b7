//go:build windows

package audio

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

// interruptGroup is a no-op: Windows has no reliable graceful signal, so
// terminate falls through to killGroup after the grace period.
func interruptGroup(cmd *exec.Cmd) error {
	return nil
}

func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
