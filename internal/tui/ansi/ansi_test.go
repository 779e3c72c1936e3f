package ansi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const red = "\x1b[31m"
const reset = "\x1b[0m"

func TestSliceHorizontal(t *testing.T) {
	assert.Equal(t, "abc", SliceHorizontal("abcdef", 0, 3))
	assert.Equal(t, "cde", SliceHorizontal("abcdef", 2, 3))
	assert.Equal(t, "", SliceHorizontal("abcdef", 2, 0))
	assert.Equal(t, "ef", SliceHorizontal("abcdef", 4, 10))

	got := SliceHorizontal(red+"abcdef"+reset, 1, 2)
	assert.Equal(t, "bc", Strip(got))
	assert.Contains(t, got, red)
}

func TestPadExact(t *testing.T) {
	assert.Equal(t, "ab  ", PadExact("ab", 4))
	assert.Equal(t, "abcdef", PadExact("abcdef", 4))
	assert.Equal(t, red+"ab"+reset+"  ", PadExact(red+"ab"+reset, 4))
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", Fit("ab", 4))
	assert.Equal(t, "abc…", Fit("abcdef", 4))
	assert.Equal(t, "", Fit("abc", 0))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, WrapLine("abcdef", 4))
	assert.Equal(t, []string{""}, WrapLine("", 4))
	assert.Equal(t, []string{""}, WrapLine("abc", 0))

	parts := WrapLine(red+"abcdef"+reset, 3)
	assert.Len(t, parts, 2)
	assert.Equal(t, "def", Strip(parts[1]))
}
