//go:build !windows

package process

import (
	"os/exec"
)

// DefaultShell returns /bin/sh -c
func DefaultShell() Shell {
	return Shell{Path: "/bin/sh", Flag: "-c"}
}

// Command builds a command that runs command through the shell
func (s Shell) Command(command string) *exec.Cmd {
	return exec.Command(s.Path, s.Flag, command)
}
