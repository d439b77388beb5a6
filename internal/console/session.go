// Package console attaches the launcher to its parent's console and points
// the standard streams at it for as long as the session is open.
package console

import (
	"errors"
	"os"
)

// ErrNoParentConsole is returned by Attach when the parent process has no
// console to attach to.
var ErrNoParentConsole = errors.New("no parent console")

// Session is an attached console. The three files stay valid until Close.
type Session struct {
	stdin  *os.File
	stdout *os.File
	stderr *os.File

	release func() error
	closed  bool
}

// Stdin returns the console input stream
func (s *Session) Stdin() *os.File {
	return s.stdin
}

// Stdout returns the console output stream
func (s *Session) Stdout() *os.File {
	return s.stdout
}

// Stderr returns the console error stream
func (s *Session) Stderr() *os.File {
	return s.stderr
}

// Close restores the previous standard streams and detaches from the
// console. Calling it more than once is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.release == nil {
		return nil
	}
	return s.release()
}
