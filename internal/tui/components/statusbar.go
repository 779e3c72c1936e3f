package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	tuiansi "github.com/interpretive-systems/rowdiff/internal/tui/ansi"
)

// StatusBar manages the bottom status bar.
type StatusBar struct {
	lastRefresh time.Time
	lastCommit  string
	keyBuffer   string
	message     string
	mode        string
	language    string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

func (s *StatusBar) SetLastRefresh(t time.Time) { s.lastRefresh = t }
func (s *StatusBar) SetLastCommit(msg string)   { s.lastCommit = msg }
func (s *StatusBar) SetKeyBuffer(buf string)    { s.keyBuffer = buf }
func (s *StatusBar) SetMode(mode string)        { s.mode = mode }
func (s *StatusBar) SetLanguage(lang string)    { s.language = lang }

// SetMessage shows a one-off message in place of the help hint.
func (s *StatusBar) SetMessage(msg string) { s.message = msg }

// Message returns the message currently shown.
func (s *StatusBar) Message() string { return s.message }

// Render renders the status bar. The right part is always visible.
func (s *StatusBar) Render(width int) string {
	left := "h: help"
	switch {
	case s.keyBuffer != "":
		left = s.keyBuffer
	case s.message != "":
		left = s.message
	}
	if s.lastCommit != "" {
		left += "  |  last: " + s.lastCommit
	}

	var right []string
	if s.language != "" {
		right = append(right, s.language)
	}
	if s.mode != "" {
		right = append(right, s.mode)
	}
	if !s.lastRefresh.IsZero() {
		right = append(right, "refreshed: "+s.lastRefresh.Format("15:04:05"))
	}

	faint := lipgloss.NewStyle().Faint(true)
	r := faint.Render(strings.Join(right, "  "))
	rightW := lipgloss.Width(r)
	if rightW >= width {
		return tuiansi.Fit(r, width)
	}
	return tuiansi.Fit(faint.Render(left), width-rightW-1) + " " + r
}
