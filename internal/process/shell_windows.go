package process

import (
	"os"
	"os/exec"
	"syscall"
)

// DefaultShell returns %COMSPEC% /c, falling back to cmd.exe
func DefaultShell() Shell {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	return Shell{Path: comspec, Flag: "/c"}
}

// Command builds a command that runs command through the shell. The command
// line is passed verbatim so cmd.exe sees exactly what was configured.
func (s Shell) Command(command string) *exec.Cmd {
	cmd := exec.Command(s.Path)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: syscall.EscapeArg(s.Path) + " " + s.Flag + " " + command,
	}
	return cmd
}
