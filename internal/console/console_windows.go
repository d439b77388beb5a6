package console

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// attachParentProcess is ATTACH_PARENT_PROCESS, (DWORD)-1
const attachParentProcess = ^uint32(0)

var (
	kernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procAttachConsole = kernel32.NewProc("AttachConsole")
	procFreeConsole   = kernel32.NewProc("FreeConsole")
)

// stdStream pairs a standard handle slot with the os package variable that mirrors it
type stdStream struct {
	id   uint32
	file **os.File
}

var stdStreams = []stdStream{
	{windows.STD_INPUT_HANDLE, &os.Stdin},
	{windows.STD_OUTPUT_HANDLE, &os.Stdout},
	{windows.STD_ERROR_HANDLE, &os.Stderr},
}

// Attach attaches to the parent process's console and redirects standard
// input, output and error to it. The returned session must be closed.
func Attach() (*Session, error) {
	if err := attachConsole(attachParentProcess); err != nil {
		// ERROR_INVALID_HANDLE: the parent has no console.
		// ERROR_INVALID_PARAMETER: the parent has already exited.
		if errors.Is(err, windows.ERROR_INVALID_HANDLE) || errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return nil, fmt.Errorf("%w: %w", ErrNoParentConsole, err)
		}
		return nil, fmt.Errorf("AttachConsole failed: %w", err)
	}

	session, err := redirect()
	if err != nil {
		_ = freeConsole()
		return nil, err
	}
	return session, nil
}

// redirect opens the console devices and installs them as the standard streams
func redirect() (*Session, error) {
	stdin, err := openConsoleFile("CONIN$")
	if err != nil {
		return nil, err
	}
	stdout, err := openConsoleFile("CONOUT$")
	if err != nil {
		_ = stdin.Close()
		return nil, err
	}
	stderr, err := openConsoleFile("CONOUT$")
	if err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		return nil, err
	}

	files := []*os.File{stdin, stdout, stderr}
	previousFiles := make([]*os.File, len(stdStreams))
	previousHandles := make([]windows.Handle, len(stdStreams))

	for i, stream := range stdStreams {
		previousFiles[i] = *stream.file
		previousHandles[i], _ = windows.GetStdHandle(stream.id)

		if err := windows.SetStdHandle(stream.id, windows.Handle(files[i].Fd())); err != nil {
			// Undo the slots already switched before giving up
			for j := 0; j < i; j++ {
				_ = windows.SetStdHandle(stdStreams[j].id, previousHandles[j])
				*stdStreams[j].file = previousFiles[j]
			}
			for _, f := range files {
				_ = f.Close()
			}
			return nil, fmt.Errorf("SetStdHandle failed: %w", err)
		}
		*stream.file = files[i]
	}

	session := &Session{stdin: stdin, stdout: stdout, stderr: stderr}
	session.release = func() error {
		var errs []error
		for i, stream := range stdStreams {
			if err := windows.SetStdHandle(stream.id, previousHandles[i]); err != nil {
				errs = append(errs, fmt.Errorf("SetStdHandle failed: %w", err))
			}
			*stream.file = previousFiles[i]
		}
		for _, f := range files {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := freeConsole(); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}
	return session, nil
}

// openConsoleFile opens a console device ("CONIN$" or "CONOUT$") for reading and writing
func openConsoleFile(name string) (*os.File, error) {
	path, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, err
	}

	h, err := windows.CreateFile(
		path,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	return os.NewFile(uintptr(h), name), nil
}

func attachConsole(pid uint32) error {
	r1, _, e1 := syscall.SyscallN(procAttachConsole.Addr(), uintptr(pid))
	if r1 == 0 {
		return e1
	}
	return nil
}

func freeConsole() error {
	r1, _, e1 := syscall.SyscallN(procFreeConsole.Addr())
	if r1 == 0 {
		return fmt.Errorf("FreeConsole failed: %w", e1)
	}
	return nil
}
