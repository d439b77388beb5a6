//go:build !windows

// Package dialog shows fatal errors to a user who may have no console.
package dialog

import (
	"fmt"
	"os"
)

// Native reports whether Show opens a real window
const Native = false

// Show writes the message to standard error; there is no native dialog here
func Show(title, message string) error {
	_, err := fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
	return err
}
