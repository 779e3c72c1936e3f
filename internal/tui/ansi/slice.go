// Package ansi holds width-aware helpers for styled terminal strings.
package ansi

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SliceHorizontal returns the part of s starting at visual column start that
// fits in width columns. Escape sequences are preserved.
func SliceHorizontal(s string, start, width int) string {
	if width <= 0 {
		return ""
	}
	if start <= 0 {
		return ansi.Truncate(s, width, "")
	}
	return ansi.TruncateLeft(ansi.Truncate(s, start+width, ""), start, "")
}

// PadExact pads s with spaces to at least w columns.
func PadExact(s string, w int) string {
	if vw := ansi.StringWidth(s); vw < w {
		return s + strings.Repeat(" ", w-vw)
	}
	return s
}

// Fit pads or truncates s to exactly w columns, marking truncation with an
// ellipsis.
func Fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > w {
		return ansi.Truncate(s, w, "…")
	}
	return PadExact(s, w)
}

// Strip removes escape sequences.
func Strip(s string) string { return ansi.Strip(s) }
