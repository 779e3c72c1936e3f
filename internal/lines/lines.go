// Package lines splits text blobs and unified diffs into line arrays and
// parses unified diff hunk headers.
package lines

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var eolRe = regexp.MustCompile(`\r\n|\r|\n`)

// Split splits text on "\r\n", "\r" or "\n". Each terminator is matched on its
// own, so mixed line endings still yield one element per line. An empty text
// yields a single empty line.
func Split(text string) []string {
	return eolRe.Split(text, -1)
}

// Join joins lines with "\n". Join(Split(s)) is s with its line endings
// normalized to "\n".
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

// IsHunkHeader reports whether a diff line starts a hunk.
func IsHunkHeader(line string) bool {
	return strings.HasPrefix(line, "@@")
}

// FirstHunk returns the index of the first hunk header in diffLines, or
// len(diffLines) if there is none.
func FirstHunk(diffLines []string) int {
	for i, l := range diffLines {
		if IsHunkHeader(l) {
			return i
		}
	}
	return len(diffLines)
}

// HunkHeader is a parsed "@@ -a,b +c,d @@" line. Starts are 1-based as written
// in the diff; a start of 0 only appears with a run of 0 (file absent on that
// side).
type HunkHeader struct {
	LeftStart  int
	LeftRun    int
	RightStart int
	RightRun   int
}

func (h HunkHeader) String() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.LeftStart, h.LeftRun, h.RightStart, h.RightRun)
}

// FormatError reports a line that was expected to be a hunk header but is not.
type FormatError struct {
	Line string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid hunk header %q", e.Line)
}

var hunkRe = regexp.MustCompile(`@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseHunkHeader parses a hunk header. An omitted run length defaults to 1.
// Trailing text after the closing "@@" (a function name, usually) is ignored.
func ParseHunkHeader(line string) (HunkHeader, error) {
	m := hunkRe.FindStringSubmatch(line)
	if m == nil {
		return HunkHeader{}, &FormatError{Line: line}
	}
	nums := [4]int{0, 1, 0, 1}
	for i, s := range m[1:] {
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return HunkHeader{}, &FormatError{Line: line}
		}
		nums[i] = n
	}
	return HunkHeader{
		LeftStart:  nums[0],
		LeftRun:    nums[1],
		RightStart: nums[2],
		RightRun:   nums[3],
	}, nil
}
