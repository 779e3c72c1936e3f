// Package session holds one displayed diff: its line arrays, aligned rows,
// display mode and highlighting state.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/intraline"
	"github.com/interpretive-systems/rowdiff/internal/lines"
	"github.com/interpretive-systems/rowdiff/internal/logger"
)

// ErrHighlightShape is returned when highlighted line arrays do not match the
// session's line arrays.
var ErrHighlightShape = errors.New("highlight result does not match line count")

// State is the input of a diff session.
type State struct {
	// Filename selects the syntax; Path names the file for comments. Either
	// may stand in for the other.
	Filename  string
	Path      string
	LeftText  string
	RightText string
	Diff      string
}

func (st State) name() string {
	if st.Filename != "" {
		return st.Filename
	}
	return st.Path
}

// Line is one rendered row.
type Line struct {
	Row diffview.Row
	// Left and Right are the cells of a split row. A spacer is "".
	Left  string
	Right string
	// Prefix, HTML and Ctx describe a unified row. Ctx is the highlighted
	// line on the other side that HTML was diffed against, if any.
	Prefix  string
	HTML    string
	Ctx     string
	Trailer bool
}

// Session is owned by a single goroutine.
type Session struct {
	state     State
	requested diffview.Mode
	mode      diffview.Mode

	left, right, diff []string
	rows              []diffview.Row
	lines             []Line

	gen uint64
	hl  *highlight.Result

	log *slog.Logger
}

// New returns an empty session showing diffs in mode where possible.
func New(mode diffview.Mode) *Session {
	return &Session{
		requested: mode,
		mode:      mode,
		log:       logger.Component("session"),
	}
}

// Update replaces the diff. It aligns the new texts, drops highlights of the
// previous diff and returns the highlight request for the new one. When the
// diff is malformed the session keeps its previous contents.
func (s *Session) Update(st State) (*highlight.Request, error) {
	left := lines.Split(st.LeftText)
	right := lines.Split(st.RightText)
	diff := lines.Split(st.Diff)
	mode := diffview.EffectiveMode(s.requested, st.LeftText, st.RightText)

	rows, err := diffview.Align(left, right, diff, mode)
	if err != nil {
		s.log.Warn("align failed", "path", st.Path, "err", err)
		return nil, fmt.Errorf("%s: %w", st.name(), err)
	}

	s.state = st
	s.left, s.right, s.diff = left, right, diff
	s.rows, s.mode = rows, mode
	s.hl = nil
	s.gen++
	s.render()
	s.log.Debug("diff updated", "path", st.Path, "gen", s.gen, "mode", mode, "rows", len(rows))
	return s.request(), nil
}

// SetMode changes the requested display mode. Files empty on one side stay
// unified. Cached highlights are reused; without them a fresh request is
// returned, since any request in flight belongs to the old rows.
func (s *Session) SetMode(m diffview.Mode) (*highlight.Request, error) {
	s.requested = m
	if s.rows == nil {
		s.mode = m
		return nil, nil
	}
	mode := diffview.EffectiveMode(m, s.state.LeftText, s.state.RightText)
	if mode == s.mode {
		return nil, nil
	}
	rows, err := diffview.Align(s.left, s.right, s.diff, mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.state.name(), err)
	}
	s.rows, s.mode = rows, mode
	s.gen++
	s.render()
	s.log.Debug("mode changed", "mode", mode, "gen", s.gen, "cached", s.hl != nil)
	if s.hl != nil {
		return nil, nil
	}
	return s.request(), nil
}

func (s *Session) request() *highlight.Request {
	return &highlight.Request{
		Generation: s.gen,
		Filename:   s.state.name(),
		Left:       s.state.LeftText,
		Right:      s.state.RightText,
	}
}

// ApplyHighlight merges a highlight response into the rows. It reports false
// without touching anything when the response belongs to an older
// generation.
func (s *Session) ApplyHighlight(resp highlight.Response) (bool, error) {
	if resp.Generation != s.gen {
		s.log.Debug("stale highlight", "gen", resp.Generation, "current", s.gen)
		return false, nil
	}
	if resp.Err != nil {
		return false, fmt.Errorf("highlight %s: %w", s.state.name(), resp.Err)
	}
	res := resp.Result
	if len(res.Left) != len(s.left) || len(res.Right) != len(s.right) {
		return false, fmt.Errorf("%w: got %d/%d lines, want %d/%d",
			ErrHighlightShape, len(res.Left), len(res.Right), len(s.left), len(s.right))
	}
	s.hl = &res
	s.render()
	return true, nil
}

func (s *Session) leftHTML(i int) string {
	if s.hl != nil {
		return s.hl.Left[i]
	}
	return html.EscapeString(s.left[i])
}

func (s *Session) rightHTML(i int) string {
	if s.hl != nil {
		return s.hl.Right[i]
	}
	return html.EscapeString(s.right[i])
}

func (s *Session) render() {
	out := make([]Line, len(s.rows))
	for i, r := range s.rows {
		l := Line{Row: r, Trailer: r.Trailer}
		switch {
		case r.Trailer:
		case s.mode == diffview.ModeSplit:
			if r.HasLeft() {
				l.Left = s.leftHTML(r.LeftIndex)
			}
			if r.HasRight() {
				l.Right = s.rightHTML(r.RightIndex)
			}
			if r.Changed {
				p := intraline.Merge(l.Left, l.Right)
				l.Left, l.Right = p.Left, p.Right
			}
		case r.HasLeft() && r.HasRight():
			l.Prefix, l.HTML = " ", s.leftHTML(r.LeftIndex)
		case r.HasLeft():
			l.Prefix, l.HTML = "-", s.leftHTML(r.LeftIndex)
			if r.HasCtxRight() {
				l.Ctx = s.rightHTML(r.CtxRightIndex)
				l.HTML = intraline.MergeContext(l.HTML, l.Ctx)
			}
		default:
			l.Prefix, l.HTML = "+", s.rightHTML(r.RightIndex)
			if r.HasCtxLeft() {
				l.Ctx = s.leftHTML(r.CtxLeftIndex)
				l.HTML = intraline.MergeContext(l.HTML, l.Ctx)
			}
		}
		out[i] = l
	}
	s.lines = out
}

// Lines returns the rendered rows, trailer included.
func (s *Session) Lines() []Line { return s.lines }

// Rows returns the aligned rows, trailer included.
func (s *Session) Rows() []diffview.Row { return s.rows }

// Mode returns the mode rows are aligned in.
func (s *Session) Mode() diffview.Mode { return s.mode }

// RequestedMode returns the mode last asked for.
func (s *Session) RequestedMode() diffview.Mode { return s.requested }

func (s *Session) Generation() uint64 { return s.gen }
func (s *Session) State() State       { return s.state }
func (s *Session) Highlighted() bool  { return s.hl != nil }

func (s *Session) LeftLines() []string  { return s.left }
func (s *Session) RightLines() []string { return s.right }
func (s *Session) DiffLines() []string  { return s.diff }

// PlaceComments anchors comment positions to rows.
func (s *Session) PlaceComments(positions []int) ([]diffview.Placement, error) {
	return diffview.PlaceComments(s.rows, s.diff, positions)
}

// ChangeStarts returns the row positions where runs of changes begin.
func (s *Session) ChangeStarts() []int { return diffview.ChangeStarts(s.rows) }

// SelectionText returns the copy text of rows [from, to].
func (s *Session) SelectionText(from, to int, side diffview.Side) string {
	from, to = max(from, 0), min(to+1, len(s.rows))
	if from >= to {
		return ""
	}
	return diffview.SelectionText(s.rows[from:to], s.left, s.right, s.mode, side)
}
