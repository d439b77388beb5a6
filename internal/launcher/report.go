package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Metaphorme/pysuitcase/internal/dialog"
	"github.com/Metaphorme/pysuitcase/internal/process"
	"github.com/Metaphorme/pysuitcase/pkg/suitcase"
)

// Fatal error messages shown to the user
const (
	MsgDirectory = "Could not change directory to app folder."
	MsgHidden    = "Failed to create process in hidden mode."
	MsgAttached  = "Failed to run command in attached console."
	MsgPiped     = "Failed to execute command via pipe."
	MsgStartup   = "Launcher failed to start."
)

// Reporter surfaces a fatal error through whatever channel the user can see
type Reporter interface {
	Fatal(message string, err error)
}

// ReporterFor returns a dialog reporter for windowed builds, where standard
// error is usually invisible, and a standard error reporter otherwise. Console
// builds still raise the dialog when no child could be started.
func ReporterFor(subsystem process.Subsystem, logger *zap.Logger) Reporter {
	if subsystem == process.SubsystemWindows {
		return &dialogReporter{logger: logger}
	}
	r := &streamReporter{w: os.Stderr, logger: logger}
	if dialog.Native {
		r.show = dialog.Show
	}
	return r
}

type dialogReporter struct {
	logger *zap.Logger
}

func (r *dialogReporter) Fatal(message string, _ error) {
	if err := dialog.Show(suitcase.DialogTitle, message); err != nil {
		r.logger.Error("Failed to show error dialog", zap.Error(err))
	}
}

// streamReporter writes "message: cause" lines. When show is set, creation
// failures are also raised as a dialog.
type streamReporter struct {
	w      io.Writer
	show   func(title, message string) error
	logger *zap.Logger
}

func (r *streamReporter) Fatal(message string, err error) {
	if err == nil {
		_, _ = fmt.Fprintln(r.w, message)
	} else {
		_, _ = fmt.Fprintf(r.w, "%s: %v\n", message, err)
	}

	if r.show == nil || !isCreationFailure(err) {
		return
	}
	if derr := r.show(suitcase.DialogTitle, message); derr != nil && r.logger != nil {
		r.logger.Error("Failed to show error dialog", zap.Error(derr))
	}
}

// isCreationFailure reports errors where no child process was started
func isCreationFailure(err error) bool {
	return errors.Is(err, ErrProcessCreation) || errors.Is(err, ErrPipeOpen)
}

func fatalMessage(mode Mode) string {
	switch mode {
	case ModeAttached:
		return MsgAttached
	case ModeHidden:
		return MsgHidden
	default:
		return MsgPiped
	}
}
