package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/rowdiff/internal/theme"
	tuiansi "github.com/interpretive-systems/rowdiff/internal/tui/ansi"
)

const minPane = 20

// Layout manages screen layout calculations. A single-pane layout has no
// file list.
type Layout struct {
	width     int
	height    int
	leftWidth int
	single    bool
}

// NewLayout creates a new layout manager.
func NewLayout(single bool) *Layout {
	return &Layout{single: single}
}

// SetSize updates the layout dimensions. The left pane starts at a third of
// the width.
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
	if l.leftWidth == 0 {
		l.leftWidth = max(width/3, 24)
	}
}

// SetLeftWidth sets the left pane width.
func (l *Layout) SetLeftWidth(width int) {
	l.leftWidth = width
}

func (l *Layout) Width() int  { return l.width }
func (l *Layout) Height() int { return l.height }

// LeftWidth returns the left pane width, 0 for a single pane.
func (l *Layout) LeftWidth() int {
	if l.single {
		return 0
	}
	return max(l.leftWidth, minPane)
}

// RightWidth returns the right pane width.
func (l *Layout) RightWidth() int {
	if l.single {
		return max(l.width, 1)
	}
	return max(l.width-l.LeftWidth()-1, 1)
}

// ContentHeight returns the height available for content.
func (l *Layout) ContentHeight(overlayHeight int) int {
	// top bar + top rule + bottom rule + bottom bar + overlays
	return max(l.height-4-overlayHeight, 1)
}

// AdjustLeftWidth adjusts the left width by delta.
func (l *Layout) AdjustLeftWidth(delta int) {
	l.leftWidth = max(min(l.leftWidth+delta, l.width-minPane), minPane)
}

// RenderFrame renders the main frame with top bar, rules, and columns.
func (l *Layout) RenderFrame(
	topLeft, topRight string,
	leftLines, rightLines []string,
	overlayLines []string,
	bottomBar string,
	t theme.Theme,
) string {
	var b strings.Builder

	b.WriteString(l.renderTopBar(topLeft, topRight))
	b.WriteByte('\n')
	b.WriteString(t.DividerText(strings.Repeat("─", l.width)))
	b.WriteByte('\n')

	leftW := l.LeftWidth()
	rightW := l.RightWidth()
	sep := t.DividerText("│")
	rows := l.ContentHeight(len(overlayLines))
	for i := range rows {
		if !l.single {
			left := ""
			if i < len(leftLines) {
				left = leftLines[i]
			}
			b.WriteString(tuiansi.Fit(left, leftW))
			b.WriteString(sep)
		}
		right := ""
		if i < len(rightLines) {
			right = rightLines[i]
		}
		b.WriteString(tuiansi.Fit(right, rightW))
		if i < rows-1 {
			b.WriteByte('\n')
		}
	}

	for _, line := range overlayLines {
		b.WriteByte('\n')
		b.WriteString(tuiansi.Fit(line, l.width))
	}

	b.WriteByte('\n')
	b.WriteString(t.DividerText(strings.Repeat("─", l.width)))
	b.WriteByte('\n')
	b.WriteString(bottomBar)
	return b.String()
}

func (l *Layout) renderTopBar(left, right string) string {
	rightW := lipgloss.Width(right)
	if rightW >= l.width {
		return tuiansi.Fit(right, l.width)
	}
	return tuiansi.Fit(left, l.width-rightW-1) + " " + right
}
