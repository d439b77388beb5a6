package launcher

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectory marks a target directory that is missing or inaccessible
	ErrDirectory = errors.New("directory error")
	// ErrConsoleAttach marks a failed console attach; the launcher falls back to hidden mode
	ErrConsoleAttach = errors.New("console attach error")
	// ErrProcessCreation marks a child process that could not be started
	ErrProcessCreation = errors.New("process creation error")
	// ErrPipeOpen marks an output pipe that could not be established
	ErrPipeOpen = errors.New("pipe open error")
)

// DirectoryError is returned when the working directory cannot be changed
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot change directory to %q: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() []error {
	return []error{ErrDirectory, e.Err}
}

// ConsoleAttachError is returned when the parent console cannot be attached
type ConsoleAttachError struct {
	Err error
}

func (e *ConsoleAttachError) Error() string {
	return fmt.Sprintf("cannot attach to parent console: %v", e.Err)
}

func (e *ConsoleAttachError) Unwrap() []error {
	return []error{ErrConsoleAttach, e.Err}
}

// ProcessCreationError is returned when no child process was started
type ProcessCreationError struct {
	Mode Mode
	Err  error
}

func (e *ProcessCreationError) Error() string {
	return fmt.Sprintf("cannot create process (%s mode): %v", e.Mode, e.Err)
}

func (e *ProcessCreationError) Unwrap() []error {
	return []error{ErrProcessCreation, e.Err}
}

// PipeOpenError is returned when the piped command could not be started
type PipeOpenError struct {
	Err error
}

func (e *PipeOpenError) Error() string {
	return fmt.Sprintf("cannot open command pipe: %v", e.Err)
}

func (e *PipeOpenError) Unwrap() []error {
	return []error{ErrPipeOpen, e.Err}
}
