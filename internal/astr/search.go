package astr

import "regexp"

// Search attaches classes to every non-empty match of re and returns the
// matched ranges in order.
func (s *String) Search(re *regexp.Regexp, classes ...string) []Range {
	var found []Range
	for _, m := range re.FindAllStringIndex(s.text, -1) {
		if m[0] == m[1] {
			continue
		}
		r := Range{Location: m[0], Length: m[1] - m[0]}
		s.AddAttributes(r, classes...)
		found = append(found, r)
	}
	return found
}
