package diffview

import "fmt"

// NoIndex marks an absent index in a Row.
const NoIndex = -1

// RowKind represents the semantic type of a display row.
type RowKind int

const (
	RowContext RowKind = iota
	RowAdd
	RowDel
	RowReplace
	RowTrailer
)

func (k RowKind) String() string {
	switch k {
	case RowContext:
		return "context"
	case RowAdd:
		return "add"
	case RowDel:
		return "del"
	case RowReplace:
		return "replace"
	case RowTrailer:
		return "trailer"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// Row describes one display row by pointing into the left, right and diff
// line arrays. Absent indices are NoIndex.
//
// A row with only LeftIndex is a pure deletion, a row with only RightIndex a
// pure insertion. Both set is an unmodified line, or a replaced pair when
// Changed is set (split mode only).
type Row struct {
	LeftIndex  int
	RightIndex int

	// DiffIndex is the diff line the row came from ("-" or " ", or "+" for a
	// pure insertion). Comments anchor on it.
	DiffIndex int

	// RightDiffIndex is the "+" diff line merged into a deletion row (split
	// mode).
	RightDiffIndex int

	// Changed marks a deletion paired with an insertion (split mode).
	Changed bool

	// CtxLeftIndex and CtxRightIndex name the line on the other side that
	// intraline highlighting diffs against (unified mode).
	CtxLeftIndex  int
	CtxRightIndex int

	// Hunk is the ordinal of the hunk the row belongs to, or NoIndex for rows
	// outside any hunk.
	Hunk int

	// Trailer marks the padding row appended after all content rows.
	Trailer bool
}

func newRow() Row {
	return Row{
		LeftIndex:      NoIndex,
		RightIndex:     NoIndex,
		DiffIndex:      NoIndex,
		RightDiffIndex: NoIndex,
		CtxLeftIndex:   NoIndex,
		CtxRightIndex:  NoIndex,
		Hunk:           NoIndex,
	}
}

func (r Row) HasLeft() bool      { return r.LeftIndex != NoIndex }
func (r Row) HasRight() bool     { return r.RightIndex != NoIndex }
func (r Row) HasDiff() bool      { return r.DiffIndex != NoIndex }
func (r Row) HasRightDiff() bool { return r.RightDiffIndex != NoIndex }
func (r Row) HasCtxLeft() bool   { return r.CtxLeftIndex != NoIndex }
func (r Row) HasCtxRight() bool  { return r.CtxRightIndex != NoIndex }

// Kind classifies the row.
func (r Row) Kind() RowKind {
	switch {
	case r.Trailer:
		return RowTrailer
	case r.HasLeft() && r.HasRight() && r.Changed:
		return RowReplace
	case r.HasLeft() && r.HasRight():
		return RowContext
	case r.HasLeft():
		return RowDel
	default:
		return RowAdd
	}
}

// AnchorIndex returns the diff index a comment on the given side of this row
// would attach to, falling back to the other side's index.
func (r Row) AnchorIndex(side Side) int {
	if side == SideRight {
		if r.HasRightDiff() {
			return r.RightDiffIndex
		}
		return r.DiffIndex
	}
	if r.HasDiff() {
		return r.DiffIndex
	}
	return r.RightDiffIndex
}

// Side selects a column of a split view.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}
