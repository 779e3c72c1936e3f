// Package astr implements an attributed string: text plus CSS class lists
// attached to byte ranges of it. It carries syntax highlight classes through
// HTML round trips so that more classes (char-changed, search-match) can be
// layered on top.
package astr

import (
	"slices"
	"sort"
)

// Range is a span of bytes in a String.
type Range struct {
	Location int
	Length   int
}

// End returns the offset one past the range.
func (r Range) End() int { return r.Location + r.Length }

// Contains reports whether offset i falls inside the range.
func (r Range) Contains(i int) bool { return i >= r.Location && i < r.End() }

type attr struct {
	r       Range
	classes []string
}

// Run is a maximal span of text sharing one class list.
type Run struct {
	Range
	Text    string
	Classes []string
}

// String is text with class attributes. The zero value is an empty string.
type String struct {
	text  string
	attrs []attr
}

// New returns a String holding text with no attributes.
func New(text string) *String {
	return &String{text: text}
}

func (s *String) Text() string { return s.text }
func (s *String) Len() int     { return len(s.text) }

// ToPlainText returns the text without attributes.
func (s *String) ToPlainText() string { return s.text }

// AddAttributes attaches classes to r. The range is clamped into the text;
// empty ranges and empty class lists are ignored.
func (s *String) AddAttributes(r Range, classes ...string) {
	start, end := max(r.Location, 0), min(r.End(), len(s.text))
	if start >= end || len(classes) == 0 {
		return
	}
	s.attrs = append(s.attrs, attr{
		r:       Range{Location: start, Length: end - start},
		classes: slices.Clone(classes),
	})
}

// AppendString appends text carrying classes.
func (s *String) AppendString(text string, classes ...string) {
	off := len(s.text)
	s.text += text
	s.AddAttributes(Range{Location: off, Length: len(text)}, classes...)
}

// Append appends o, shifting its attributes past the current end.
func (s *String) Append(o *String) {
	off := len(s.text)
	s.text += o.text
	for _, a := range o.attrs {
		s.attrs = append(s.attrs, attr{
			r:       Range{Location: a.r.Location + off, Length: a.r.Length},
			classes: a.classes,
		})
	}
}

// Clone returns a copy of s.
func (s *String) Clone() *String {
	return &String{text: s.text, attrs: slices.Clone(s.attrs)}
}

// Runs splits the text into maximal runs of identical class lists. A run's
// classes are those of every attribute covering it, in the order the
// attributes start, without duplicates. Text outside any attribute forms runs
// with no classes.
func (s *String) Runs() []Run {
	if len(s.text) == 0 {
		return nil
	}
	bounds := []int{0, len(s.text)}
	for _, a := range s.attrs {
		bounds = append(bounds, a.r.Location, a.r.End())
	}
	sort.Ints(bounds)
	bounds = slices.Compact(bounds)

	// Attributes in activation order: by start, then insertion order.
	order := make([]int, len(s.attrs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.attrs[order[i]].r.Location < s.attrs[order[j]].r.Location
	})

	// Sweep the bounds, keeping the covering attributes in activation order.
	var runs []Run
	var active []int
	next := 0
	for i := 0; i+1 < len(bounds); i++ {
		from, to := bounds[i], bounds[i+1]
		active = slices.DeleteFunc(active, func(ai int) bool { return s.attrs[ai].r.End() <= from })
		for ; next < len(order) && s.attrs[order[next]].r.Location <= from; next++ {
			if s.attrs[order[next]].r.Contains(from) {
				active = append(active, order[next])
			}
		}
		var classes []string
		for _, ai := range active {
			for _, c := range s.attrs[ai].classes {
				if !slices.Contains(classes, c) {
					classes = append(classes, c)
				}
			}
		}
		if n := len(runs); n > 0 && slices.Equal(runs[n-1].Classes, classes) {
			runs[n-1].Length = to - runs[n-1].Location
			runs[n-1].Text = s.text[runs[n-1].Location:to]
			continue
		}
		runs = append(runs, Run{
			Range:   Range{Location: from, Length: to - from},
			Text:    s.text[from:to],
			Classes: classes,
		})
	}
	return runs
}

// Reduce replaces the attributes with one non-overlapping attribute per run.
func (s *String) Reduce() {
	runs := s.Runs()
	s.attrs = s.attrs[:0]
	for _, r := range runs {
		if len(r.Classes) > 0 {
			s.attrs = append(s.attrs, attr{r: r.Range, classes: r.Classes})
		}
	}
}

// Off removes the named classes everywhere and reduces the result, so
// neighbouring runs left with the same classes merge.
func (s *String) Off(classes ...string) {
	kept := s.attrs[:0]
	for _, a := range s.attrs {
		rest := slices.DeleteFunc(slices.Clone(a.classes), func(c string) bool {
			return slices.Contains(classes, c)
		})
		if len(rest) > 0 {
			kept = append(kept, attr{r: a.r, classes: rest})
		}
	}
	s.attrs = kept
	s.Reduce()
}

// HasClass reports whether any attribute carries class.
func (s *String) HasClass(class string) bool {
	for _, a := range s.attrs {
		if slices.Contains(a.classes, class) {
			return true
		}
	}
	return false
}
