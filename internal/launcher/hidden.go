package launcher

import (
	"go.uber.org/zap"
)

// hiddenStrategy starts the command with no window and no console and
// returns as soon as creation succeeds. The child's own exit status is never
// observed; a successful start is a successful launch.
type hiddenStrategy struct {
	start  func(command string) (int, error)
	logger *zap.Logger
}

func (s *hiddenStrategy) Mode() Mode {
	return ModeHidden
}

func (s *hiddenStrategy) run(command string) (int, error) {
	pid, err := s.start(command)
	if err != nil {
		return 0, &ProcessCreationError{Mode: ModeHidden, Err: err}
	}

	s.logger.Info("Started hidden process", zap.Int("pid", pid))
	return 0, nil
}
