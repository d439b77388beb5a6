package launcher

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Metaphorme/pysuitcase/internal/console"
	"github.com/Metaphorme/pysuitcase/internal/process"
)

// Mode is the execution strategy chosen for a launch
type Mode int

const (
	// ModeAttached runs the command synchronously on the parent's console
	ModeAttached Mode = iota + 1
	// ModeHidden starts the command with no window and does not wait for it
	ModeHidden
	// ModePiped relays the command's output through a pipe to our stdout
	ModePiped
)

func (m Mode) String() string {
	switch m {
	case ModeAttached:
		return "attached"
	case ModeHidden:
		return "hidden"
	case ModePiped:
		return "piped"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ConsoleSession is an attached console whose streams the command inherits
type ConsoleSession interface {
	Stdin() *os.File
	Stdout() *os.File
	Stderr() *os.File
	Close() error
}

// Attacher attaches to the parent console
type Attacher func() (ConsoleSession, error)

// attachParentConsole adapts console.Attach, keeping a failed attach a nil interface
func attachParentConsole() (ConsoleSession, error) {
	session, err := console.Attach()
	if err != nil {
		return nil, err
	}
	return session, nil
}

// strategy runs a command line and returns the launcher's exit code. Every
// resource a strategy acquires is released before run returns.
type strategy interface {
	Mode() Mode
	run(command string) (int, error)
}

// selectStrategy picks the strategy for this launch. Console builds always
// pipe. Windowed builds attach to the parent console when they can and run
// hidden otherwise; an attach failure is never fatal.
func (l *Launcher) selectStrategy(subsystem process.Subsystem, logger *zap.Logger) strategy {
	if subsystem != process.SubsystemWindows {
		return &pipedStrategy{
			shell:      l.shell,
			stdout:     l.stdout,
			bufferSize: l.cfg.BufferSize,
			logger:     logger,
		}
	}

	session, err := l.attach()
	if err != nil {
		attachErr := &ConsoleAttachError{Err: err}
		if errors.Is(err, console.ErrNoParentConsole) {
			logger.Debug("No parent console, running hidden", zap.Error(attachErr))
		} else {
			logger.Warn("Console attach failed, running hidden", zap.Error(attachErr))
		}
		return &hiddenStrategy{
			start:  l.startHidden,
			logger: logger,
		}
	}

	return &attachedStrategy{
		session: session,
		shell:   l.shell,
		logger:  logger,
	}
}
