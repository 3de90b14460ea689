// Package term reads the size of the controlling terminal.
package term

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when the file is not attached to a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// IsTerminal returns true if the file is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Size returns the terminal dimensions (width, height) of f.
func Size(f *os.File) (width, height uint, err error) {
	if !IsTerminal(f) {
		return 0, 0, fmt.Errorf("%s: %w", f.Name(), ErrNotTerminal)
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("reading terminal size: %w", err)
	}
	return uint(w), uint(h), nil
}
