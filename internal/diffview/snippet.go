package diffview

import (
	"strings"

	"github.com/interpretive-systems/rowdiff/internal/lines"
)

// DefaultSnippetLines is the number of lines a review comment shows above
// itself.
const DefaultSnippetLines = 4

// SnippetLine is one displayed line of a HunkSnippet.
type SnippetLine struct {
	// Row indexes Left/Right of the snippet. DiffIndex is relative to the
	// text passed to Snippet.
	Row Row
	// Prefix is "+", "-" or " ".
	Prefix string
	Text   string
	// LeftNum and RightNum are 1-based file line numbers, 0 when absent.
	LeftNum  int
	RightNum int
}

// HunkSnippet is the tail of a diff hunk shown above a review comment.
type HunkSnippet struct {
	// Header is the hunk header line. Renderers show it only when the
	// snippet was not truncated.
	Header    string
	Left      []string
	Right     []string
	Lines     []SnippetLine
	Truncated bool
	// Empty is set when the text held no hunk.
	Empty bool
}

// Snippet rebuilds both sides of the first hunk in diffHunk and aligns them
// in unified mode, keeping only the last keep lines. keep <= 0 keeps all.
// Hunk headers after the first are ignored.
func Snippet(diffHunk string, keep int) (HunkSnippet, error) {
	diffLines := lines.Split(diffHunk)
	first := lines.FirstHunk(diffLines)
	if first == len(diffLines) {
		return HunkSnippet{Empty: true}, nil
	}
	header, err := lines.ParseHunkHeader(diffLines[first])
	if err != nil {
		return HunkSnippet{}, err
	}

	body := make([]string, len(diffLines)-first)
	copy(body, diffLines[first:])
	var left, right []string
	for i := 1; i < len(body); i++ {
		l := body[i]
		switch {
		case lines.IsHunkHeader(l):
			body[i] = ""
		case strings.HasPrefix(l, " "):
			left = append(left, l[1:])
			right = append(right, l[1:])
		case strings.HasPrefix(l, "-"):
			left = append(left, l[1:])
		case strings.HasPrefix(l, "+"):
			right = append(right, l[1:])
		}
	}
	body[0] = lines.HunkHeader{LeftStart: 1, LeftRun: len(left), RightStart: 1, RightRun: len(right)}.String()

	rows, err := Align(left, right, body, ModeUnified)
	if err != nil {
		return HunkSnippet{}, err
	}
	rows = rows[:len(rows)-1]

	s := HunkSnippet{Header: diffLines[first], Left: left, Right: right}
	for _, r := range rows {
		if r.HasDiff() {
			r.DiffIndex += first
		}
		sl := SnippetLine{Row: r}
		switch r.Kind() {
		case RowDel:
			sl.Prefix, sl.Text = "-", left[r.LeftIndex]
		case RowAdd:
			sl.Prefix, sl.Text = "+", right[r.RightIndex]
		default:
			sl.Prefix, sl.Text = " ", left[r.LeftIndex]
		}
		if r.HasLeft() {
			sl.LeftNum = header.LeftStart + r.LeftIndex
		}
		if r.HasRight() {
			sl.RightNum = header.RightStart + r.RightIndex
		}
		s.Lines = append(s.Lines, sl)
	}
	if keep > 0 && len(s.Lines) > keep {
		s.Lines = s.Lines[len(s.Lines)-keep:]
		s.Truncated = true
	}
	return s, nil
}
