// Package clipboard copies dictionary text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard helper is installed.
var ErrUnavailable = errors.New("no clipboard command available (install wl-clipboard, xclip or xsel)")

var (
	writeAll    = clipboard.WriteAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// Write copies text to the system clipboard.
func Write(text string) error {
	if unsupported() {
		return ErrUnavailable
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Available reports whether a clipboard helper is installed.
func Available() bool {
	return !unsupported()
}
