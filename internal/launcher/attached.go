package launcher

import (
	"go.uber.org/zap"

	"github.com/Metaphorme/pysuitcase/internal/process"
)

// attachedStrategy runs the command through the shell on the parent's
// console and waits for it to exit.
type attachedStrategy struct {
	session ConsoleSession
	shell   process.Shell
	logger  *zap.Logger
}

func (s *attachedStrategy) Mode() Mode {
	return ModeAttached
}

func (s *attachedStrategy) run(command string) (int, error) {
	defer func() {
		if err := s.session.Close(); err != nil {
			s.logger.Warn("Failed to release console", zap.Error(err))
		}
	}()

	cmd := s.shell.Command(command)
	cmd.Stdin = s.session.Stdin()
	cmd.Stdout = s.session.Stdout()
	cmd.Stderr = s.session.Stderr()

	if err := cmd.Start(); err != nil {
		return 0, &ProcessCreationError{Mode: ModeAttached, Err: err}
	}
	s.logger.Debug("Command started on parent console", zap.Int("pid", cmd.Process.Pid))

	return exitCode(cmd, cmd.Wait()), nil
}
