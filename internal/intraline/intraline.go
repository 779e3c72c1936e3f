// Package intraline marks the characters that differ between two
// highlighted lines.
package intraline

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/interpretive-systems/rowdiff/internal/astr"
)

// ChangedClass is added to changed characters.
const ChangedClass = "char-changed"

// Pair is the left and right HTML of a split row.
type Pair struct {
	Left  string
	Right string
}

// diffText diffs a and b rune by rune. An invalid byte counts as one rune,
// as it does when ranging over a string.
func diffText(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes([]rune(a), []rune(b), false)
	return dmp.DiffCleanupSemantic(diffs)
}

// runeOffsets returns the byte offset of each rune of s followed by len(s),
// so runes [i, j) span bytes [offs[i], offs[j]).
func runeOffsets(s string) []int {
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	return append(offs, len(s))
}

func byteRange(offs []int, from, n int) astr.Range {
	return astr.Range{Location: offs[from], Length: offs[from+n] - offs[from]}
}

// Merge diffs the text of two highlighted lines and marks deleted characters
// on the left and inserted characters on the right. When either side is empty
// or the texts are equal, the inputs are returned unchanged.
func Merge(leftHTML, rightHTML string) Pair {
	unchanged := Pair{Left: leftHTML, Right: rightHTML}
	left, right := astr.FromHTML(leftHTML), astr.FromHTML(rightHTML)
	if left.Len() == 0 || right.Len() == 0 {
		return unchanged
	}
	diffs := diffText(left.Text(), right.Text())
	if len(diffs) <= 1 {
		return unchanged
	}

	lo, ro := runeOffsets(left.Text()), runeOffsets(right.Text())
	l, r := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			left.AddAttributes(byteRange(lo, l, n), ChangedClass)
			l += n
		case diffmatchpatch.DiffInsert:
			right.AddAttributes(byteRange(ro, r, n), ChangedClass)
			r += n
		default:
			l += n
			r += n
		}
	}
	return Pair{Left: left.ToHTML(), Right: right.ToHTML()}
}

// MergeContext diffs a highlighted line against the line it replaced or was
// replaced by, and marks the characters of html that are not in ctxHTML.
// Unified rows use it, where each row shows one side only.
func MergeContext(html, ctxHTML string) string {
	own, ctx := astr.FromHTML(html), astr.FromHTML(ctxHTML)
	if own.Len() == 0 || ctx.Len() == 0 {
		return html
	}
	diffs := diffText(own.Text(), ctx.Text())
	if len(diffs) <= 1 {
		return html
	}

	offs := runeOffsets(own.Text())
	at := 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			own.AddAttributes(byteRange(offs, at, n), ChangedClass)
			at += n
		case diffmatchpatch.DiffEqual:
			at += n
		}
	}
	return own.ToHTML()
}
