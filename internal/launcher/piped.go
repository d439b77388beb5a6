package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Metaphorme/pysuitcase/internal/process"
	"github.com/Metaphorme/pysuitcase/pkg/suitcase"
)

// pipedStrategy runs the command through the shell with its stdout and
// stderr joined into one pipe, and copies the pipe to stdout chunk by chunk
// as data arrives.
type pipedStrategy struct {
	shell      process.Shell
	stdout     io.Writer
	bufferSize int
	logger     *zap.Logger
}

func (s *pipedStrategy) Mode() Mode {
	return ModePiped
}

func (s *pipedStrategy) run(command string) (int, error) {
	reader, writer, err := os.Pipe()
	if err != nil {
		return 0, &PipeOpenError{Err: fmt.Errorf("os.Pipe failed: %w", err)}
	}
	defer func() {
		_ = reader.Close()
	}()
	defer func() {
		_ = writer.Close()
	}()

	cmd := s.shell.Command(command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = writer
	cmd.Stderr = writer

	if err := cmd.Start(); err != nil {
		return 0, &PipeOpenError{Err: err}
	}

	// The child has its own copy of the write end; ours must be closed or EOF never arrives
	_ = writer.Close()

	s.relay(reader)
	// A child still writing after a read error must see a broken pipe, not a full one
	_ = reader.Close()

	return exitCode(cmd, cmd.Wait()), nil
}

// relay copies r to stdout until end of stream. A read error is treated as
// end of stream; a write error stops echoing but keeps draining so the child
// never blocks on a full pipe.
func (s *pipedStrategy) relay(r io.Reader) {
	size := s.bufferSize
	if size <= 0 {
		size = suitcase.ReadBufferSize
	}
	buf := make([]byte, size)
	echo := true

	for {
		n, err := r.Read(buf)
		if n > 0 && echo {
			if _, werr := s.stdout.Write(buf[:n]); werr != nil {
				s.logger.Debug("Stopped echoing command output", zap.Error(werr))
				echo = false
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("Command pipe closed with error", zap.Error(err))
			}
			return
		}
	}
}
