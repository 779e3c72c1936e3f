package lines

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{""}},
		{name: "no terminator", in: "abc", want: []string{"abc"}},
		{name: "lf", in: "a\nb\n", want: []string{"a", "b", ""}},
		{name: "crlf", in: "a\r\nb", want: []string{"a", "b"}},
		{name: "cr", in: "a\rb\rc", want: []string{"a", "b", "c"}},
		{name: "mixed", in: "a\r\nb\nc\rd", want: []string{"a", "b", "c", "d"}},
		{name: "blank lines", in: "\n\n", want: []string{"", "", ""}},
		{name: "cr then lf is one break", in: "x\r\n\r\ny", want: []string{"x", "", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}

func TestJoinNormalizesLineEndings(t *testing.T) {
	in := "one\r\ntwo\nthree\rfour\r\n"
	assert.Equal(t, "one\ntwo\nthree\nfour\n", Join(Split(in)))

	plain := "already\nnormal"
	assert.Equal(t, plain, Join(Split(plain)))
}

func TestParseHunkHeader(t *testing.T) {
	h, err := ParseHunkHeader("@@ -3,5 +3,7 @@")
	require.NoError(t, err)
	assert.Equal(t, HunkHeader{LeftStart: 3, LeftRun: 5, RightStart: 3, RightRun: 7}, h)

	h, err = ParseHunkHeader("@@ -1 +1 @@")
	require.NoError(t, err)
	assert.Equal(t, HunkHeader{LeftStart: 1, LeftRun: 1, RightStart: 1, RightRun: 1}, h)

	h, err = ParseHunkHeader("@@ -10,2 +12 @@ func main() {")
	require.NoError(t, err)
	assert.Equal(t, HunkHeader{LeftStart: 10, LeftRun: 2, RightStart: 12, RightRun: 1}, h)

	h, err = ParseHunkHeader("@@ -0,0 +1,3 @@")
	require.NoError(t, err)
	assert.Equal(t, HunkHeader{LeftStart: 0, LeftRun: 0, RightStart: 1, RightRun: 3}, h)
}

func TestParseHunkHeader_Invalid(t *testing.T) {
	for _, line := range []string{
		"not a hunk",
		"@@ -a,b +c,d @@",
		"@@ -1,2 @@",
		"@@ -99999999999999999999 +1 @@",
	} {
		_, err := ParseHunkHeader(line)
		var fe *FormatError
		require.True(t, errors.As(err, &fe), "line %q", line)
		assert.Equal(t, line, fe.Line)
	}
}

func TestFirstHunk(t *testing.T) {
	diff := Split("diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b")
	assert.Equal(t, 3, FirstHunk(diff))
	assert.Equal(t, 2, FirstHunk([]string{"a", "b"}))
	assert.Equal(t, 0, FirstHunk(nil))
}

func TestHunkHeaderString(t *testing.T) {
	h := HunkHeader{LeftStart: 1, LeftRun: 4, RightStart: 2, RightRun: 5}
	parsed, err := ParseHunkHeader(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
}
