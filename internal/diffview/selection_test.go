package diffview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionText(t *testing.T) {
	left := []string{"a", "b", "c"}
	right := []string{"a", "x", "c"}

	unified, err := Align(left, right, replaceDiff, ModeUnified)
	require.NoError(t, err)
	assert.Equal(t, "  a\n- b\n+ x\n  c\n", SelectionText(unified, left, right, ModeUnified, SideLeft))

	split, err := Align(left, right, replaceDiff, ModeSplit)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", SelectionText(split, left, right, ModeSplit, SideLeft))
	assert.Equal(t, "a\nx\nc\n", SelectionText(split, left, right, ModeSplit, SideRight))
}

func TestSelectionText_SkipsSpacers(t *testing.T) {
	left := []string{"a", "b", "c"}
	right := []string{"a", "x"}
	diff := []string{"@@ -1,3 +1,2 @@", " a", "-b", "-c", "+x"}
	rows, err := Align(left, right, diff, ModeSplit)
	require.NoError(t, err)

	assert.Equal(t, "a\nx\n", SelectionText(rows, left, right, ModeSplit, SideRight))
	assert.Equal(t, "b\nc\n", SelectionText(rows[1:3], left, right, ModeSplit, SideLeft))
}

func TestSelectionText_StripsNoBreakSpace(t *testing.T) {
	left := []string{"a\u00a0b"}
	rows, err := Align(left, left, nil, ModeSplit)
	require.NoError(t, err)
	assert.Equal(t, "ab\n", SelectionText(rows, left, left, ModeSplit, SideLeft))
}
