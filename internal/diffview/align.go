// Package diffview aligns a unified diff against the full before and after
// texts and produces the ordered rows of a split or unified diff display.
package diffview

import (
	"fmt"
	"strings"

	"github.com/interpretive-systems/rowdiff/internal/lines"
)

// Mode is a diff display mode.
type Mode int

const (
	ModeSplit Mode = iota
	ModeUnified
)

func (m Mode) String() string {
	if m == ModeUnified {
		return "unified"
	}
	return "split"
}

// ParseMode parses "split" or "unified". "side-by-side" and "inline" are
// accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "split", "side-by-side", "sidebyside":
		return ModeSplit, nil
	case "unified", "inline":
		return ModeUnified, nil
	default:
		return ModeSplit, fmt.Errorf("unknown diff mode %q", s)
	}
}

// EffectiveMode returns the mode a diff is displayed in. A file that is empty
// on either side has nothing to pair, so it is always shown unified.
func EffectiveMode(requested Mode, leftText, rightText string) Mode {
	if leftText == "" || rightText == "" {
		return ModeUnified
	}
	return requested
}

// Align walks diff against left and right and returns the display rows for
// mode, followed by one trailer row.
//
// Lines before the first hunk header are ignored. Diff lines that start with
// none of "@@", " ", "-" or "+" (the "\ No newline" marker, blank lines) are
// skipped. A malformed hunk header aborts alignment with a *lines.FormatError.
func Align(left, right, diff []string, mode Mode) ([]Row, error) {
	rows := make([]Row, 0, max(len(left), len(right))+1)

	leftIdx, rightIdx := 0, 0
	// hunkQueue counts the trailing rows that are deletions not yet paired
	// with an insertion.
	hunkQueue := 0
	hunk := NoIndex

	queued := func(diffIdx int) int {
		at := len(rows) - hunkQueue
		if at < 0 || at >= len(rows) {
			panic(fmt.Errorf("diffview: hunk queue %d out of range for %d rows at diff line %d", hunkQueue, len(rows), diffIdx))
		}
		return at
	}

	for diffIdx := lines.FirstHunk(diff); diffIdx < len(diff); diffIdx++ {
		line := diff[diffIdx]
		switch {
		case lines.IsHunkHeader(line):
			h, err := lines.ParseHunkHeader(line)
			if err != nil {
				return nil, fmt.Errorf("diff line %d: %w", diffIdx, err)
			}
			hunkQueue = 0
			hunk++
			// Lines between hunks are unmodified.
			for leftIdx+1 < h.LeftStart && rightIdx+1 < h.RightStart {
				r := newRow()
				r.LeftIndex, r.RightIndex = leftIdx, rightIdx
				rows = append(rows, r)
				leftIdx++
				rightIdx++
			}
		case strings.HasPrefix(line, " "):
			hunkQueue = 0
			r := newRow()
			r.LeftIndex, r.RightIndex, r.DiffIndex, r.Hunk = leftIdx, rightIdx, diffIdx, hunk
			rows = append(rows, r)
			leftIdx++
			rightIdx++
		case strings.HasPrefix(line, "-"):
			r := newRow()
			r.LeftIndex, r.DiffIndex, r.Hunk = leftIdx, diffIdx, hunk
			rows = append(rows, r)
			leftIdx++
			hunkQueue++
		case strings.HasPrefix(line, "+"):
			if mode == ModeSplit {
				if hunkQueue > 0 {
					// Pair with the oldest unpaired deletion.
					at := queued(diffIdx)
					rows[at].RightIndex = rightIdx
					rows[at].RightDiffIndex = diffIdx
					rows[at].Changed = true
					hunkQueue--
				} else {
					r := newRow()
					r.RightIndex, r.DiffIndex, r.Hunk = rightIdx, diffIdx, hunk
					rows = append(rows, r)
				}
			} else {
				next := newRow()
				next.RightIndex, next.DiffIndex, next.Hunk = rightIdx, diffIdx, hunk
				if hunkQueue > 0 {
					// The queue is not consumed here: each insertion looks back
					// by the same offset, which moves forward as rows are added.
					at := queued(diffIdx)
					rows[at].CtxRightIndex = rightIdx
					next.CtxLeftIndex = rows[at].LeftIndex
				}
				rows = append(rows, next)
			}
			rightIdx++
		}
	}

	for leftIdx < len(left) && rightIdx < len(right) {
		r := newRow()
		r.LeftIndex, r.RightIndex = leftIdx, rightIdx
		rows = append(rows, r)
		leftIdx++
		rightIdx++
	}
	for ; leftIdx < len(left); leftIdx++ {
		r := newRow()
		r.LeftIndex = leftIdx
		rows = append(rows, r)
	}
	for ; rightIdx < len(right); rightIdx++ {
		r := newRow()
		r.RightIndex = rightIdx
		rows = append(rows, r)
	}

	trailer := newRow()
	trailer.Trailer = true
	rows = append(rows, trailer)
	return rows, nil
}

// ChangeStarts returns the positions of rows that begin a run of changed rows.
func ChangeStarts(rows []Row) []int {
	var starts []int
	inRun := false
	for i, r := range rows {
		k := r.Kind()
		changed := k == RowAdd || k == RowDel || k == RowReplace
		if changed && !inRun {
			starts = append(starts, i)
		}
		inRun = changed
	}
	return starts
}
