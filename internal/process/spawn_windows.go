package process

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Metaphorme/pysuitcase/internal/handle"
)

// StartHidden creates a process from a raw command line with no window and
// no console, and returns its PID without waiting for it. The command line
// is handed to CreateProcess as is; no shell is involved.
func StartHidden(command string) (int, error) {
	// CreateProcessW may modify the command line in place, so it gets its own buffer
	cmdLine, err := windows.UTF16FromString(command)
	if err != nil {
		return 0, fmt.Errorf("invalid command line: %w", err)
	}

	var si windows.StartupInfo
	si.Cb = uint32(unsafe.Sizeof(si))
	// Std handles stay null: hidden output is never captured
	si.Flags = windows.STARTF_USESTDHANDLES

	var pi windows.ProcessInformation
	err = windows.CreateProcess(
		nil,
		&cmdLine[0],
		nil,
		nil,
		false,
		windows.CREATE_NO_WINDOW,
		nil,
		nil,
		&si,
		&pi,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateProcess failed: %w", err)
	}

	processHandle := handle.Own("process", pi.Process)
	threadHandle := handle.Own("thread", pi.Thread)
	defer func() {
		_ = threadHandle.Close()
	}()
	defer func() {
		_ = processHandle.Close()
	}()

	return int(pi.ProcessId), nil
}
