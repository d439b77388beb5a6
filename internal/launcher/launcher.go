// Package launcher binds the working directory, picks an execution mode and
// runs the configured command, owning every OS resource involved until the
// launch is done.
package launcher

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Metaphorme/pysuitcase/internal/config"
	"github.com/Metaphorme/pysuitcase/internal/handle"
	"github.com/Metaphorme/pysuitcase/internal/process"
	"github.com/Metaphorme/pysuitcase/pkg/suitcase"
)

// Launcher runs one configured command. It is safe to Run more than once,
// but not concurrently: Run changes the process working directory.
type Launcher struct {
	cfg    *config.Config
	logger *zap.Logger

	attach      Attacher
	startHidden func(command string) (int, error)
	shell       process.Shell
	stdout      io.Writer
	reporter    Reporter
	subsystem   process.Subsystem
	detect      func() (process.Subsystem, error)
}

// Option customizes a Launcher
type Option func(*Launcher)

// WithAttacher replaces the parent console attacher
func WithAttacher(a Attacher) Option {
	return func(l *Launcher) {
		l.attach = a
	}
}

// WithHiddenStarter replaces the hidden-mode process creator
func WithHiddenStarter(start func(command string) (int, error)) Option {
	return func(l *Launcher) {
		l.startHidden = start
	}
}

// WithShell sets the shell used by the attached and piped modes
func WithShell(shell process.Shell) Option {
	return func(l *Launcher) {
		l.shell = shell
	}
}

// WithStdout sets where piped output is echoed
func WithStdout(w io.Writer) Option {
	return func(l *Launcher) {
		l.stdout = w
	}
}

// WithReporter sets the fatal error reporter
func WithReporter(r Reporter) Option {
	return func(l *Launcher) {
		l.reporter = r
	}
}

// WithSubsystem forces the build flavour instead of detecting it
func WithSubsystem(s process.Subsystem) Option {
	return func(l *Launcher) {
		l.subsystem = s
	}
}

// New creates a launcher for cfg
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Launcher{
		cfg:         cfg,
		logger:      logger,
		attach:      attachParentConsole,
		startHidden: process.StartHidden,
		shell:       process.DefaultShell(),
		stdout:      os.Stdout,
		subsystem:   cfg.SubsystemOverride(),
		detect:      process.DetectSelf,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run performs one launch and returns the exit code for the launcher:
// the child's own code, 0 for a started hidden process, or
// suitcase.ExitFailure when the directory, process or pipe could not be
// set up.
func (l *Launcher) Run() int {
	logger := l.logger.With(zap.String("launch_id", uuid.NewString()))

	subsystem := l.resolveSubsystem(logger)
	reporter := l.reporter
	if reporter == nil {
		reporter = ReporterFor(subsystem, logger)
	}

	if err := BindDirectory(l.cfg.AppFolder); err != nil {
		logger.Error("Failed to bind working directory", zap.Error(err))
		reporter.Fatal(MsgDirectory, err)
		return suitcase.ExitFailure
	}
	logger.Debug("Working directory bound", zap.String("dir", l.cfg.AppFolder))

	strat := l.selectStrategy(subsystem, logger)
	logger.Debug("Execution mode selected",
		zap.Stringer("mode", strat.Mode()),
		zap.Stringer("subsystem", subsystem))

	code, err := strat.run(l.cfg.Command)
	if err != nil {
		logger.Error("Launch failed", zap.Stringer("mode", strat.Mode()), zap.Error(err))
		reporter.Fatal(fatalMessage(strat.Mode()), err)
		return suitcase.ExitFailure
	}

	logger.Debug("Launch finished", zap.Stringer("mode", strat.Mode()), zap.Int("exit_code", code))
	l.logCensus(logger)
	return code
}

// resolveSubsystem reads the build flavour from the executable unless it was
// configured. Detection failures fall back to console behaviour.
func (l *Launcher) resolveSubsystem(logger *zap.Logger) process.Subsystem {
	if l.subsystem != process.SubsystemAuto {
		return l.subsystem
	}

	subsystem, err := l.detect()
	if err != nil {
		logger.Debug("Could not detect subsystem, assuming console", zap.Error(err))
		return process.SubsystemConsole
	}
	return subsystem
}

// logCensus logs the launcher's open handles by type at debug level
func (l *Launcher) logCensus(logger *zap.Logger) {
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}

	counts, err := handle.Census(uint32(os.Getpid()))
	if err != nil {
		logger.Debug("Handle census unavailable", zap.Error(err))
		return
	}
	logger.Debug("Handle census", zap.Any("handles", counts))
}

// exitCode turns the result of Wait into the code the launcher exits with
func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return suitcase.ExitFailure
}
