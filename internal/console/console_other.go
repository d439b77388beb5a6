//go:build !windows

package console

// Attach always fails outside Windows: there is no console to inherit from
// a parent, so callers fall back to running hidden.
func Attach() (*Session, error) {
	return nil, ErrNoParentConsole
}
