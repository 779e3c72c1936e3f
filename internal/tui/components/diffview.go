package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/session"
	"github.com/interpretive-systems/rowdiff/internal/theme"
	tuiansi "github.com/interpretive-systems/rowdiff/internal/tui/ansi"
)

// DiffView manages the right pane diff viewer.
type DiffView struct {
	palette   *theme.Palette
	lines     []session.Line
	mode      diffview.Mode
	message   string
	viewport  viewport.Model
	xOffset   int
	wrapLines bool

	// rowStart[i] is the first screen line of lines[i].
	rowStart []int
	content  []string
}

// NewDiffView creates a new diff viewer.
func NewDiffView(p *theme.Palette) *DiffView {
	return &DiffView{palette: p}
}

// SetLines replaces the rendered rows of the session.
func (d *DiffView) SetLines(lines []session.Line, mode diffview.Mode) {
	d.lines = lines
	d.mode = mode
	d.message = ""
}

// SetMessage shows msg instead of rows until the next SetLines.
func (d *DiffView) SetMessage(msg string) {
	d.message = msg
}

// Reset drops the rows and scrolls back to the top.
func (d *DiffView) Reset() {
	d.lines = nil
	d.message = ""
	d.viewport.GotoTop()
}

// SetSize updates the viewport dimensions.
func (d *DiffView) SetSize(width, height int) {
	d.viewport.Width = width
	d.viewport.Height = height
}

func (d *DiffView) Wrap() bool { return d.wrapLines }

// SetWrap sets line wrapping. Wrapped lines never scroll horizontally.
func (d *DiffView) SetWrap(wrap bool) {
	d.wrapLines = wrap
	if wrap {
		d.xOffset = 0
	}
}

// XOffset returns the current horizontal offset.
func (d *DiffView) XOffset() int {
	return d.xOffset
}

// ScrollLeft scrolls left by delta.
func (d *DiffView) ScrollLeft(delta int) {
	d.xOffset = max(d.xOffset-delta, 0)
}

// ScrollRight scrolls right by delta.
func (d *DiffView) ScrollRight(delta int) {
	if d.wrapLines {
		return
	}
	d.xOffset += delta
}

// ScrollHome resets horizontal scroll.
func (d *DiffView) ScrollHome() {
	d.xOffset = 0
}

// Render lays out the rows for width columns and loads them into the viewport.
func (d *DiffView) Render(width int) []string {
	d.rowStart = d.rowStart[:0]
	var out []string
	switch {
	case d.message != "":
		out = []string{lipgloss.NewStyle().Faint(true).Render(d.message)}
	case d.lines == nil:
		out = []string{"Loading diff…"}
	default:
		numW := d.numberWidth()
		for _, l := range d.lines {
			d.rowStart = append(d.rowStart, len(out))
			switch {
			case l.Trailer:
			case d.mode == diffview.ModeSplit:
				out = append(out, d.splitRow(l, width, numW)...)
			default:
				out = append(out, d.unifiedRow(l, width, numW)...)
			}
		}
	}
	d.content = out
	d.viewport.SetContent(strings.Join(out, "\n"))
	return out
}

// Content returns the lines of the last Render.
func (d *DiffView) Content() []string {
	return d.content
}

// View returns the viewport view.
func (d *DiffView) View() string {
	return d.viewport.View()
}

// Viewport returns the underlying viewport for direct manipulation.
func (d *DiffView) Viewport() *viewport.Model {
	return &d.viewport
}

// RowAt returns the row shown on screen line y of the content.
func (d *DiffView) RowAt(y int) int {
	i := sort.Search(len(d.rowStart), func(i int) bool { return d.rowStart[i] > y })
	return max(i-1, 0)
}

// VisibleRows returns the first and last row with a line on screen.
func (d *DiffView) VisibleRows() (from, to int) {
	if len(d.rowStart) == 0 {
		return 0, -1
	}
	top := d.viewport.YOffset
	bottom := top + max(d.viewport.Height, 1) - 1
	return d.RowAt(top), d.RowAt(bottom)
}

// ShowRow scrolls so that row is on screen, a third of the way down when the
// view has to move.
func (d *DiffView) ShowRow(row int) {
	if row < 0 || row >= len(d.rowStart) {
		return
	}
	y := d.rowStart[row]
	if y >= d.viewport.YOffset && y < d.viewport.YOffset+d.viewport.Height {
		return
	}
	d.viewport.SetYOffset(max(y-d.viewport.Height/3, 0))
}

// changeMargin is how many lines stay visible above a change jumped to.
const changeMargin = 2

// JumpChange scrolls to the next (dir > 0) or previous change start and
// reports whether it moved.
func (d *DiffView) JumpChange(starts []int, dir int) bool {
	anchor := d.viewport.YOffset + changeMargin
	target := -1
	for _, s := range starts {
		if s >= len(d.rowStart) {
			continue
		}
		y := d.rowStart[s]
		if dir > 0 && y > anchor {
			target = y
			break
		}
		if dir < 0 && y < anchor {
			target = y
		}
	}
	if target < 0 {
		return false
	}
	d.viewport.SetYOffset(max(target-changeMargin, 0))
	return true
}

func (d *DiffView) numberWidth() int {
	n := 0
	for _, l := range d.lines {
		n = max(n, l.Row.LeftIndex+1, l.Row.RightIndex+1)
	}
	return len(fmt.Sprint(n))
}

func number(idx, w int) string {
	if idx == diffview.NoIndex {
		return strings.Repeat(" ", w)
	}
	return fmt.Sprintf("%*d", w, idx+1)
}

func (d *DiffView) splitRow(l session.Line, width, numW int) []string {
	colW := max((width-1)/2, 10)
	t := d.palette.Theme()
	mid := t.DividerText("│")
	r := l.Row
	plain := lipgloss.NewStyle()

	blank := []string{strings.Repeat(" ", colW)}
	left, right := blank, blank
	if r.HasLeft() && r.HasRight() && !r.Changed {
		left = d.cell(number(r.LeftIndex, numW)+"   ", numW+3, l.Left, plain, colW)
		right = d.cell(number(r.RightIndex, numW)+"   ", numW+3, l.Right, plain, colW)
	} else {
		if r.HasLeft() {
			g := number(r.LeftIndex, numW) + " " + t.DelText("-") + " "
			left = d.cell(g, numW+3, l.Left, d.delBase(), colW)
		}
		if r.HasRight() {
			g := number(r.RightIndex, numW) + " " + t.AddText("+") + " "
			right = d.cell(g, numW+3, l.Right, d.addBase(), colW)
		}
	}

	n := max(len(left), len(right))
	out := make([]string, n)
	for i := range n {
		lc, rc := blank[0], blank[0]
		if i < len(left) {
			lc = left[i]
		}
		if i < len(right) {
			rc = right[i]
		}
		out[i] = lc + mid + rc
	}
	return out
}

func (d *DiffView) unifiedRow(l session.Line, width, numW int) []string {
	t := d.palette.Theme()
	r := l.Row
	nums := number(r.LeftIndex, numW) + " " + number(r.RightIndex, numW) + " "
	gw := 2*numW + 4
	switch l.Prefix {
	case "-":
		return d.cell(nums+t.DelText("-")+" ", gw, l.HTML, d.delBase(), width)
	case "+":
		return d.cell(nums+t.AddText("+")+" ", gw, l.HTML, d.addBase(), width)
	default:
		return d.cell(nums+"  ", gw, l.HTML, lipgloss.NewStyle(), width)
	}
}

func (d *DiffView) addBase() lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(d.palette.Theme().AddBgColor))
}

func (d *DiffView) delBase() lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(d.palette.Theme().DelBgColor))
}

// cell renders one highlighted line behind a gutter of gw columns, exactly
// width columns wide. Wrapped continuation lines get a blank gutter.
func (d *DiffView) cell(gutter string, gw int, html string, base lipgloss.Style, width int) []string {
	if width <= gw {
		return []string{tuiansi.Fit(gutter, width)}
	}
	bodyW := width - gw
	body := d.palette.Render(html, base)
	if !d.wrapLines {
		return []string{gutter + tuiansi.PadExact(tuiansi.SliceHorizontal(body, d.xOffset, bodyW), bodyW)}
	}
	parts := tuiansi.WrapLine(body, bodyW)
	out := make([]string, len(parts))
	for i, p := range parts {
		if i > 0 {
			gutter = strings.Repeat(" ", gw)
		}
		out[i] = gutter + tuiansi.PadExact(p, bodyW)
	}
	return out
}
