// Package dialog shows fatal errors to a user who may have no console.
package dialog

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Native reports whether Show opens a real window
const Native = true

// Show displays a modal error message box and blocks until it is dismissed
func Show(title, message string) error {
	caption, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return fmt.Errorf("invalid dialog title: %w", err)
	}
	text, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return fmt.Errorf("invalid dialog message: %w", err)
	}

	if _, err := windows.MessageBox(0, text, caption, windows.MB_OK|windows.MB_ICONERROR); err != nil {
		return fmt.Errorf("MessageBox failed: %w", err)
	}
	return nil
}
