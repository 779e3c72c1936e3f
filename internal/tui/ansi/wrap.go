package ansi

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// WrapLine hard-wraps a single line to width columns. Escape sequences stay
// where they were. An empty line yields one empty line.
func WrapLine(s string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	return strings.Split(ansi.Hardwrap(s, width, true), "\n")
}
