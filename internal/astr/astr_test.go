package astr

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runClasses(s *String) map[string][]string {
	out := map[string][]string{}
	for _, r := range s.Runs() {
		out[r.Text] = r.Classes
	}
	return out
}

func TestFromHTML_NestedClasses(t *testing.T) {
	s := FromHTML(`<span class="hljs-keyword">func</span> <span class="hljs-title outer"><span class="inner">main</span>()</span>`)
	assert.Equal(t, "func main()", s.Text())

	runs := s.Runs()
	require.Len(t, runs, 4)
	assert.Equal(t, Run{Range: Range{0, 4}, Text: "func", Classes: []string{"hljs-keyword"}}, runs[0])
	assert.Equal(t, " ", runs[1].Text)
	assert.Empty(t, runs[1].Classes)
	assert.Equal(t, []string{"inner", "hljs-title", "outer"}, runs[2].Classes)
	assert.Equal(t, "()", runs[3].Text)
	assert.Equal(t, []string{"hljs-title", "outer"}, runs[3].Classes)
}

func TestFromHTML_UnescapesEntities(t *testing.T) {
	s := FromHTML(`<span class="s">&quot;a &lt; b &amp;&amp; c&quot;</span>`)
	assert.Equal(t, `"a < b && c"`, s.Text())
}

func TestFromHTML_BestEffort(t *testing.T) {
	s := FromHTML(`</span>a<span class="k">b<br>c`)
	assert.Equal(t, "abc", s.Text())
	assert.Equal(t, map[string][]string{"a": nil, "bc": {"k"}}, runClasses(s))
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"plain",
		`if a < b && c > "d" { return 'e' }`,
		"tab\tand\rcarriage",
		"xy ünïcödé ✓ 日本語",
		"&amp; literally",
	}
	for _, text := range texts {
		s := New(text)
		if len(text) > 3 {
			s.AddAttributes(Range{1, 2}, "k")
			s.AddAttributes(Range{0, len(text)}, "line", "x")
		}
		got := FromHTML(s.ToHTML())
		assert.Equal(t, s.ToPlainText(), got.ToPlainText(), "text %q", text)
		assert.Equal(t, s.ToHTML(), got.ToHTML(), "text %q", text)
	}
}

func TestToHTML(t *testing.T) {
	s := New("a<b")
	s.AddAttributes(Range{1, 2}, "op", "char-changed")
	assert.Equal(t, `a<span class="op char-changed">&lt;b</span>`, s.ToHTML())
	assert.Equal(t, "x", New("x").ToHTML())
}

func TestAddAttributes_Clamps(t *testing.T) {
	s := New("abc")
	s.AddAttributes(Range{-2, 3}, "a")
	s.AddAttributes(Range{2, 10}, "b")
	s.AddAttributes(Range{5, 1}, "ignored")
	s.AddAttributes(Range{1, 0}, "ignored")
	s.AddAttributes(Range{0, 3})

	assert.False(t, s.HasClass("ignored"))
	assert.Equal(t, map[string][]string{"a": {"a"}, "b": nil, "c": {"b"}}, runClasses(s))
}

func TestRuns_ActivationOrder(t *testing.T) {
	s := New("abcd")
	s.AddAttributes(Range{2, 2}, "late")
	s.AddAttributes(Range{0, 4}, "early")
	s.AddAttributes(Range{0, 4}, "early")

	runs := s.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, []string{"early"}, runs[0].Classes)
	assert.Equal(t, []string{"early", "late"}, runs[1].Classes)
}

func TestRuns_OverlappingSweep(t *testing.T) {
	s := New("abcdefgh")
	s.AddAttributes(Range{0, 6}, "a")
	s.AddAttributes(Range{2, 2}, "b")
	s.AddAttributes(Range{3, 5}, "c")
	s.AddAttributes(Range{5, 0}, "z")
	s.AddAttributes(Range{6, 2}, "a")

	var got [][2]any
	for _, r := range s.Runs() {
		got = append(got, [2]any{r.Text, r.Classes})
	}
	assert.Equal(t, [][2]any{
		{"ab", []string{"a"}},
		{"c", []string{"a", "b"}},
		{"d", []string{"a", "b", "c"}},
		{"ef", []string{"a", "c"}},
		{"gh", []string{"c", "a"}},
	}, got)
}

func TestAppend(t *testing.T) {
	s := New("ab")
	s.AddAttributes(Range{0, 1}, "x")
	o := New("cd")
	o.AddAttributes(Range{1, 1}, "y")
	s.Append(o)
	s.AppendString("e", "z")

	assert.Equal(t, "abcde", s.Text())
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, `<span class="x">a</span>bc<span class="y">d</span><span class="z">e</span>`, s.ToHTML())
}

func TestOff_MergesRuns(t *testing.T) {
	s := FromHTML(`<span class="k">a</span><span class="k char-changed">b</span><span class="k">c</span>`)
	require.Len(t, s.Runs(), 3)

	s.Off("char-changed")
	assert.False(t, s.HasClass("char-changed"))
	assert.Equal(t, `<span class="k">abc</span>`, s.ToHTML())

	s.Off("k")
	assert.Equal(t, "abc", s.ToHTML())
}

func TestSearch(t *testing.T) {
	s := FromHTML(`<span class="k">foo</span> bar foo`)
	found := s.Search(regexp.MustCompile(`fo+`), "search-match")
	assert.Equal(t, []Range{{0, 3}, {8, 3}}, found)
	assert.Equal(t, `<span class="k search-match">foo</span> bar <span class="search-match">foo</span>`, s.ToHTML())

	assert.Empty(t, s.Search(regexp.MustCompile(`z*`), "search-match"))

	s.Off("search-match")
	assert.Equal(t, `<span class="k">foo</span> bar foo`, s.ToHTML())
}
