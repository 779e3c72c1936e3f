package diffview

import "strings"

// SelectionText returns the text of rows for copying. Unified mode prefixes
// each line with its change marker. Split mode copies the lines of one side
// and skips rows where that side is a spacer.
func SelectionText(rows []Row, left, right []string, mode Mode, side Side) string {
	var b strings.Builder
	for _, r := range rows {
		if r.Trailer {
			continue
		}
		if mode == ModeUnified {
			switch r.Kind() {
			case RowDel:
				b.WriteString("- " + left[r.LeftIndex])
			case RowAdd:
				b.WriteString("+ " + right[r.RightIndex])
			default:
				b.WriteString("  " + left[r.LeftIndex])
			}
			b.WriteByte('\n')
			continue
		}
		switch {
		case side == SideLeft && r.HasLeft():
			b.WriteString(left[r.LeftIndex])
		case side == SideRight && r.HasRight():
			b.WriteString(right[r.RightIndex])
		default:
			continue
		}
		b.WriteByte('\n')
	}
	return strings.ReplaceAll(b.String(), "\u00a0", "")
}
