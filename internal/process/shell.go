// Package process provides the shell, process-creation and executable
// inspection primitives the launcher is built on.
package process

import (
	"fmt"
)

// Shell is the command interpreter a command line is run through, invoked
// as "<Path> <Flag> <command>".
type Shell struct {
	Path string
	Flag string
}

func (s Shell) String() string {
	return fmt.Sprintf("%s %s", s.Path, s.Flag)
}
