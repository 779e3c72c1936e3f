package session

import (
	"regexp"

	"github.com/interpretive-systems/rowdiff/internal/astr"
	"github.com/interpretive-systems/rowdiff/internal/diffview"
)

// Search classes.
const (
	MatchClass        = "search-match"
	CurrentMatchClass = "search-match-highlight"
)

// Match is one search hit.
type Match struct {
	Line int
	// Side is the column of a split row; unified rows report SideLeft.
	Side  diffview.Side
	Range astr.Range
	Text  string
}

// Search marks every match of re in the rendered rows and returns the matches
// in display order. The current-th match is marked as the current one.
// Marks from a previous search are removed first. A nil re only clears.
func (s *Session) Search(re *regexp.Regexp, current int) []Match {
	var matches []Match
	mark := func(cell *string, line int, side diffview.Side) {
		a := astr.FromHTML(*cell)
		dirty := a.HasClass(MatchClass) || a.HasClass(CurrentMatchClass)
		a.Off(MatchClass, CurrentMatchClass)
		if re != nil {
			for _, r := range a.Search(re, MatchClass) {
				if len(matches) == current {
					a.AddAttributes(r, CurrentMatchClass)
				}
				matches = append(matches, Match{
					Line:  line,
					Side:  side,
					Range: r,
					Text:  a.Text()[r.Location:r.End()],
				})
				dirty = true
			}
		}
		if dirty {
			*cell = a.ToHTML()
		}
	}

	for i := range s.lines {
		l := &s.lines[i]
		if l.Trailer {
			continue
		}
		if s.mode == diffview.ModeSplit {
			mark(&l.Left, i, diffview.SideLeft)
			mark(&l.Right, i, diffview.SideRight)
		} else {
			mark(&l.HTML, i, diffview.SideLeft)
		}
	}
	return matches
}

// ClearSearch removes all search marks.
func (s *Session) ClearSearch() {
	s.Search(nil, -1)
}
