//go:build !windows

package process

import (
	"fmt"
)

// StartHidden runs command through the default shell with every standard
// stream on the null device, and returns its PID without waiting for it.
func StartHidden(command string) (int, error) {
	cmd := DefaultShell().Command(command)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %q: %w", command, err)
	}

	pid := cmd.Process.Pid
	_ = cmd.Process.Release()

	return pid, nil
}
