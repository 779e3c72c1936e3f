package htmlout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/lines"
	"github.com/interpretive-systems/rowdiff/internal/session"
)

func newSession(t *testing.T, mode diffview.Mode) *session.Session {
	t.Helper()
	s := session.New(mode)
	req, err := s.Update(session.State{
		Filename:  "main.go",
		LeftText:  "package main\n\nvar n = 1\n",
		RightText: "package main\n\nvar n = 2\n",
		Diff:      "@@ -1,3 +1,3 @@\n package main\n \n-var n = 1\n+var n = 2",
	})
	require.NoError(t, err)
	res, err := highlight.Highlight(*req)
	require.NoError(t, err)
	ok, err := s.ApplyHighlight(highlight.Response{Generation: req.Generation, Result: res})
	require.NoError(t, err)
	require.True(t, ok)
	return s
}

func TestWrite_Split(t *testing.T) {
	s := newSession(t, diffview.ModeSplit)
	var buf bytes.Buffer
	err := Write(&buf, s, []Comment{{Position: 3, Author: "ana", Body: "why <2>?"}}, Options{Title: "main.go", Style: "monokai"})
	require.NoError(t, err)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>main.go</title>")
	assert.Contains(t, out, ".chroma")
	assert.Contains(t, out, `<table class="chroma diff split">`)
	assert.Contains(t, out, `<tr class="replace">`)
	assert.Contains(t, out, "char-changed")
	assert.Contains(t, out, "why &lt;2&gt;?")

	replace := strings.Index(out, `<tr class="replace">`)
	comment := strings.Index(out, `<tr class="comment">`)
	assert.Greater(t, comment, replace)
	assert.Equal(t, 1, strings.Count(out, `<tr class="trailer">`))
}

func TestWrite_Unified(t *testing.T) {
	s := newSession(t, diffview.ModeUnified)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, nil, Options{Style: "no-such-style"}))
	out := buf.String()

	assert.Contains(t, out, `<table class="chroma diff unified">`)
	assert.Contains(t, out, `class="unified-codecol deleted-original">-`)
	assert.Contains(t, out, `class="unified-codecol inserted-new">+`)
}

func TestWrite_BadComment(t *testing.T) {
	s := newSession(t, diffview.ModeSplit)
	err := Write(&bytes.Buffer{}, s, []Comment{{Position: 99}}, Options{})
	assert.True(t, errors.Is(err, diffview.ErrNoAnchor))
}

func TestWriteSnippet(t *testing.T) {
	snip, err := diffview.Snippet("@@ -7,3 +7,3 @@\n a := 1\n-b := 2\n+b := 3", diffview.DefaultSnippetLines)
	require.NoError(t, err)
	res, err := highlight.Highlight(highlight.Request{
		Filename: "x.go",
		Left:     lines.Join(snip.Left),
		Right:    lines.Join(snip.Right),
	})
	require.NoError(t, err)

	code := SnippetLines(snip, res)
	require.Len(t, code, 3)
	assert.Contains(t, code[1], "char-changed")
	assert.Contains(t, code[2], "char-changed")
	assert.NotContains(t, code[0], "char-changed")

	var buf bytes.Buffer
	require.NoError(t, WriteSnippet(&buf, "pkg/x.go", snip, res, Options{}))
	out := buf.String()
	assert.Contains(t, out, "pkg/x.go")
	assert.Contains(t, out, `<tr class="hunk-header">`)
	assert.Contains(t, out, `<td class="gutter">8</td><td class="gutter"></td>`)
}
