package diffview

import (
	"errors"
	"fmt"
	"sort"

	"github.com/interpretive-systems/rowdiff/internal/lines"
)

// ErrNoAnchor is returned when a comment position matches no row.
var ErrNoAnchor = errors.New("no row for comment position")

// Placement groups the comments that follow one row.
type Placement struct {
	// Row is the position in the row slice the comments follow.
	Row       int
	DiffIndex int
	// Positions are the comment positions anchored here, in input order.
	Positions []int
}

// PlaceComments anchors review comments to rows. A position counts diff lines
// from the first hunk header, so position p targets diff line FirstHunk+p.
// When two rows share a diff index the later row wins. Placements come in
// row order, then by diff index within a row, which is the order a renderer
// emits them in.
func PlaceComments(rows []Row, diffLines []string, positions []int) ([]Placement, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	byDiff := make(map[int]int, len(rows))
	for i, r := range rows {
		if r.HasDiff() {
			byDiff[r.DiffIndex] = i
		}
		if r.HasRightDiff() {
			byDiff[r.RightDiffIndex] = i
		}
	}

	first := lines.FirstHunk(diffLines)
	groups := make(map[int]*Placement)
	var out []*Placement
	for _, p := range positions {
		di := first + p
		at, ok := byDiff[di]
		if !ok {
			return nil, fmt.Errorf("%w: position %d (diff line %d)", ErrNoAnchor, p, di)
		}
		g, ok := groups[di]
		if !ok {
			g = &Placement{Row: at, DiffIndex: di}
			groups[di] = g
			out = append(out, g)
		}
		g.Positions = append(g.Positions, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].DiffIndex < out[j].DiffIndex
	})
	placements := make([]Placement, len(out))
	for i, g := range out {
		placements[i] = *g
	}
	return placements, nil
}
