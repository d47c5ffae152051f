// Package terminal answers the two questions the map dump asks about its
// output: how wide is it, and does it understand colour.
package terminal

import (
	"os"

	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Size returns the width and height of the terminal attached to f, falling
// back to DefaultWidth×DefaultHeight when f is not a terminal.
func Size(f *os.File) (width, height int) {
	if f == nil {
		return DefaultWidth, DefaultHeight
	}
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// Width returns the width of the terminal attached to stdout.
func Width() int {
	w, _ := Size(os.Stdout)
	return w
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colour should be written to f. The
// NO_COLOR convention always wins.
func SupportsColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(f)
}
