package handle

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Owned is a handle with exactly one owner. Close releases it once; later
// calls are no-ops, so it is safe to both defer Close and close early.
type Owned struct {
	name   string
	handle windows.Handle
}

// Own takes ownership of h. A zero or invalid handle yields an Owned whose
// Close does nothing.
func Own(name string, h windows.Handle) *Owned {
	return &Owned{name: name, handle: h}
}

// Handle returns the raw handle, or 0 once closed
func (o *Owned) Handle() windows.Handle {
	return o.handle
}

// Close releases the handle
func (o *Owned) Close() error {
	h := o.handle
	if h == 0 || h == windows.InvalidHandle {
		return nil
	}
	o.handle = 0

	if err := windows.CloseHandle(h); err != nil {
		return fmt.Errorf("failed to close %s handle 0x%X: %w", o.name, h, err)
	}
	return nil
}
