package session

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/lines"
)

var replaceState = State{
	Filename:  "abc.txt",
	Path:      "docs/abc.txt",
	LeftText:  "a\nb < 1\nc",
	RightText: "a\nx < 1\nc",
	Diff:      "--- a/docs/abc.txt\n+++ b/docs/abc.txt\n@@ -1,3 +1,3 @@\n a\n-b < 1\n+x < 1\n c",
}

func respond(t *testing.T, req *highlight.Request) highlight.Response {
	t.Helper()
	require.NotNil(t, req)
	res, err := highlight.Highlight(*req)
	require.NoError(t, err)
	return highlight.Response{Generation: req.Generation, Result: res}
}

func TestUpdate_SplitRendersEscapedText(t *testing.T) {
	s := New(diffview.ModeSplit)
	req, err := s.Update(replaceState)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), req.Generation)
	assert.Equal(t, "abc.txt", req.Filename)
	assert.Equal(t, replaceState.LeftText, req.Left)

	ls := s.Lines()
	require.Len(t, ls, 4)
	assert.Equal(t, "a", ls[0].Left)
	assert.Equal(t, `<span class="char-changed">b</span> &lt; 1`, ls[1].Left)
	assert.Equal(t, `<span class="char-changed">x</span> &lt; 1`, ls[1].Right)
	assert.True(t, ls[3].Trailer)
	assert.False(t, s.Highlighted())
}

func TestApplyHighlight(t *testing.T) {
	s := New(diffview.ModeSplit)
	req, err := s.Update(replaceState)
	require.NoError(t, err)

	resp := respond(t, req)
	resp.Result.Left[0] = `<span class="k">a</span>`
	resp.Result.Right[0] = `<span class="k">a</span>`
	ok, err := s.ApplyHighlight(resp)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.Highlighted())
	assert.Equal(t, `<span class="k">a</span>`, s.Lines()[0].Left)
}

func TestApplyHighlight_DropsStale(t *testing.T) {
	s := New(diffview.ModeSplit)
	old, err := s.Update(replaceState)
	require.NoError(t, err)
	_, err = s.Update(State{Filename: "n.txt", LeftText: "1\n2", RightText: "1\n2"})
	require.NoError(t, err)
	before := s.Lines()

	ok, err := s.ApplyHighlight(respond(t, old))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, s.Lines())
	assert.False(t, s.Highlighted())
}

func TestApplyHighlight_Shape(t *testing.T) {
	s := New(diffview.ModeSplit)
	req, err := s.Update(replaceState)
	require.NoError(t, err)

	_, err = s.ApplyHighlight(highlight.Response{
		Generation: req.Generation,
		Result:     highlight.Result{Left: []string{"a"}, Right: []string{"a", "x", "c"}},
	})
	assert.ErrorIs(t, err, ErrHighlightShape)

	_, err = s.ApplyHighlight(highlight.Response{Generation: req.Generation, Err: errors.New("boom")})
	assert.ErrorContains(t, err, "boom")
}

func TestSetMode_ReusesHighlights(t *testing.T) {
	s := New(diffview.ModeSplit)
	req, err := s.Update(replaceState)
	require.NoError(t, err)
	_, err = s.ApplyHighlight(respond(t, req))
	require.NoError(t, err)

	req, err = s.SetMode(diffview.ModeUnified)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, diffview.ModeUnified, s.Mode())
	assert.Equal(t, uint64(2), s.Generation())

	var prefixes []string
	for _, l := range s.Lines() {
		if !l.Trailer {
			prefixes = append(prefixes, l.Prefix)
		}
	}
	assert.Equal(t, []string{" ", "-", "+", " "}, prefixes)

	del, ins := s.Lines()[1], s.Lines()[2]
	assert.Equal(t, "x &lt; 1", del.Ctx)
	assert.Equal(t, `<span class="char-changed">b</span> &lt; 1`, del.HTML)
	assert.Equal(t, "b &lt; 1", ins.Ctx)
	assert.Equal(t, `<span class="char-changed">x</span> &lt; 1`, ins.HTML)
}

func TestSetMode_RequestsWhenUncached(t *testing.T) {
	s := New(diffview.ModeSplit)
	first, err := s.Update(replaceState)
	require.NoError(t, err)

	req, err := s.SetMode(diffview.ModeUnified)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, first.Generation+1, req.Generation)

	ok, err := s.ApplyHighlight(respond(t, first))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.ApplyHighlight(respond(t, req))
	require.NoError(t, err)
	assert.True(t, ok)

	req, err = s.SetMode(diffview.ModeUnified)
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestUpdate_EmptySideIsUnified(t *testing.T) {
	s := New(diffview.ModeSplit)
	_, err := s.Update(State{Filename: "new.txt", RightText: "a\nb", Diff: "@@ -0,0 +1,2 @@\n+a\n+b"})
	require.NoError(t, err)
	assert.Equal(t, diffview.ModeUnified, s.Mode())
	assert.Equal(t, diffview.ModeSplit, s.RequestedMode())

	req, err := s.SetMode(diffview.ModeSplit)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, diffview.ModeUnified, s.Mode())
}

func TestUpdate_MalformedKeepsPrevious(t *testing.T) {
	s := New(diffview.ModeSplit)
	_, err := s.Update(replaceState)
	require.NoError(t, err)
	rows := s.Rows()

	bad := replaceState
	bad.Diff = "@@ -1,3 +1,3 @@\n a\n@@ what @@"
	req, err := s.Update(bad)
	assert.Nil(t, req)
	var fe *lines.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, rows, s.Rows())
	assert.Equal(t, uint64(1), s.Generation())
}

func TestSearch(t *testing.T) {
	s := New(diffview.ModeSplit)
	_, err := s.Update(replaceState)
	require.NoError(t, err)

	matches := s.Search(regexp.MustCompile(`< 1`), 1)
	require.Len(t, matches, 2)
	assert.Equal(t, Match{Line: 1, Side: diffview.SideLeft, Range: matches[0].Range, Text: "< 1"}, matches[0])
	assert.Equal(t, diffview.SideRight, matches[1].Side)

	l := s.Lines()[1]
	assert.Contains(t, l.Left, MatchClass)
	assert.NotContains(t, l.Left, CurrentMatchClass)
	assert.Contains(t, l.Right, CurrentMatchClass)

	matches = s.Search(regexp.MustCompile(`^a$`), 0)
	require.Len(t, matches, 2)
	assert.NotContains(t, s.Lines()[1].Left, MatchClass)

	s.ClearSearch()
	for _, l := range s.Lines() {
		assert.False(t, strings.Contains(l.Left+l.Right, "search-match"))
	}
	assert.Equal(t, "a", s.Lines()[0].Left)
}

func TestPlaceCommentsAndSelection(t *testing.T) {
	s := New(diffview.ModeUnified)
	_, err := s.Update(replaceState)
	require.NoError(t, err)

	got, err := s.PlaceComments([]int{2, 3})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Row)
	assert.Equal(t, 2, got[1].Row)

	_, err = s.PlaceComments([]int{40})
	assert.ErrorIs(t, err, diffview.ErrNoAnchor)

	assert.Equal(t, "- b < 1\n+ x < 1\n", s.SelectionText(1, 2, diffview.SideLeft))
	assert.Equal(t, "", s.SelectionText(3, 1, diffview.SideLeft))
	assert.Equal(t, []int{1}, s.ChangeStarts())
}
