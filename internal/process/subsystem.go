package process

import (
	"debug/pe"
	"fmt"
	"os"
	"strings"
)

// Subsystem is the PE subsystem an executable was linked for
type Subsystem int

const (
	// SubsystemAuto means the subsystem is read from the running executable
	SubsystemAuto Subsystem = iota
	// SubsystemConsole is a console-subsystem build (the OS always provides a console)
	SubsystemConsole
	// SubsystemWindows is a windowed build (-ldflags -H=windowsgui), started without a console
	SubsystemWindows
)

func (s Subsystem) String() string {
	switch s {
	case SubsystemAuto:
		return "auto"
	case SubsystemConsole:
		return "console"
	case SubsystemWindows:
		return "windows"
	default:
		return fmt.Sprintf("Subsystem(%d)", int(s))
	}
}

// ParseSubsystem parses "auto", "console" or "windows" (case-insensitive)
func ParseSubsystem(name string) (Subsystem, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return SubsystemAuto, nil
	case "console":
		return SubsystemConsole, nil
	case "windows", "windowsgui", "gui":
		return SubsystemWindows, nil
	default:
		return SubsystemAuto, fmt.Errorf("unknown subsystem %q", name)
	}
}

// DetectSubsystem reads the subsystem field of a PE image's optional header.
// Images that are not Windows GUI images report SubsystemConsole.
func DetectSubsystem(path string) (Subsystem, error) {
	f, err := pe.Open(path)
	if err != nil {
		return SubsystemConsole, fmt.Errorf("failed to read PE image %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var subsystem uint16
	switch header := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		subsystem = header.Subsystem
	case *pe.OptionalHeader64:
		subsystem = header.Subsystem
	default:
		return SubsystemConsole, fmt.Errorf("PE image %s has no optional header", path)
	}

	if subsystem == pe.IMAGE_SUBSYSTEM_WINDOWS_GUI {
		return SubsystemWindows, nil
	}
	return SubsystemConsole, nil
}

// DetectSelf reports the subsystem of the running executable
func DetectSelf() (Subsystem, error) {
	exe, err := os.Executable()
	if err != nil {
		return SubsystemConsole, fmt.Errorf("failed to locate executable: %w", err)
	}
	return DetectSubsystem(exe)
}
