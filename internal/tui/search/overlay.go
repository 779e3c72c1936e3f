package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	tuiansi "github.com/interpretive-systems/rowdiff/internal/tui/ansi"
)

// RenderOverlay renders the search input with a status line.
func (e *Engine) RenderOverlay(width int, dividerColor string) []string {
	if !e.active || width <= 0 {
		return nil
	}

	divider := lipgloss.NewStyle().
		Foreground(lipgloss.Color(dividerColor)).
		Render(strings.Repeat("─", width))

	status := "Type a pattern (esc/enter: close)"
	if e.query != "" {
		if len(e.matches) == 0 {
			status = "No matches (esc: close)"
		} else {
			status = fmt.Sprintf("Match %d of %d  (↓: next, ↑: prev, enter: close)",
				e.CurrentMatchIndex(), e.MatchCount())
		}
	}

	return []string{
		divider,
		tuiansi.Fit(e.InputView(), width),
		tuiansi.Fit(lipgloss.NewStyle().Faint(true).Render(status), width),
	}
}
