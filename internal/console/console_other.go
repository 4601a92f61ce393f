//go:build !windows

package console

// Attach reports whether standard output is usable. Outside Windows the
// process always inherits the terminal it was started from.
func Attach() bool {
	attached = true
	return true
}

// SetTitle is a no-op outside Windows
func SetTitle(title string) error {
	return nil
}
