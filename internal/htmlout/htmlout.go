// Package htmlout writes diff sessions and review hunk snippets as
// standalone HTML documents.
package htmlout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/intraline"
	"github.com/interpretive-systems/rowdiff/internal/session"
)

// Comment is a review comment. Position counts diff lines from the first
// hunk header.
type Comment struct {
	Position int    `json:"position"`
	Author   string `json:"author"`
	Body     string `json:"body"`
}

// Options control the document.
type Options struct {
	Title string
	// Style names the chroma style used for token colours.
	Style string
}

const baseCSS = `body { margin: 0; font: 12px/1.4 Menlo, Consolas, monospace; }
table.diff { border-collapse: collapse; width: 100%; table-layout: fixed; }
table.diff td { padding: 0 6px; vertical-align: top; white-space: pre-wrap; word-break: break-all; }
td.gutter { width: 4em; text-align: right; opacity: 0.5; user-select: none; }
td.spacer { background: rgba(128,128,128,0.12); }
td.deleted-original, tr.del td.left, tr.replace td.left { background: rgba(255,80,80,0.15); }
td.inserted-new, tr.add td.right, tr.replace td.right { background: rgba(80,200,80,0.15); }
.char-changed { background: rgba(255,200,0,0.35); }
tr.comment td { padding: 6px 12px; white-space: normal; font-family: sans-serif; }
.comment .author { font-weight: bold; margin-right: 6px; }
tr.hunk-header td { opacity: 0.6; }
`

func style(name string) *chroma.Style {
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

// writer remembers the first write error.
type writer struct {
	w   *bufio.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.w, format, args...)
	}
}

func (w *writer) str(s string) {
	if w.err == nil {
		_, w.err = w.w.WriteString(s)
	}
}

func (w *writer) flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *writer) header(opts Options) {
	w.str("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	w.printf("<title>%s</title>\n<style>\n", html.EscapeString(opts.Title))
	w.str(baseCSS)
	if w.err == nil {
		w.err = chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w.w, style(opts.Style))
	}
	w.str("</style>\n</head>\n<body>\n")
}

func (w *writer) footer() {
	w.str("</body>\n</html>\n")
}

func lineNum(i int) string {
	if i == diffview.NoIndex {
		return ""
	}
	return strconv.Itoa(i + 1)
}

// Write renders the session's rows as an HTML table with comments placed
// after the rows they anchor to.
func Write(out io.Writer, s *session.Session, comments []Comment, opts Options) error {
	byRow := map[int][]Comment{}
	if len(comments) > 0 {
		positions := make([]int, len(comments))
		for i, c := range comments {
			positions[i] = c.Position
		}
		placements, err := s.PlaceComments(positions)
		if err != nil {
			return err
		}
		// Placements list positions, so map them back to comments in order.
		pending := map[int][]Comment{}
		for _, c := range comments {
			pending[c.Position] = append(pending[c.Position], c)
		}
		for _, p := range placements {
			for _, pos := range p.Positions {
				byRow[p.Row] = append(byRow[p.Row], pending[pos][0])
				pending[pos] = pending[pos][1:]
			}
		}
	}

	w := &writer{w: bufio.NewWriter(out)}
	w.header(opts)
	mode := s.Mode()
	cols := 4
	if mode == diffview.ModeUnified {
		cols = 3
	}
	w.printf("<table class=\"chroma diff %s\">\n", mode)
	for i, l := range s.Lines() {
		r := l.Row
		switch {
		case l.Trailer:
			w.printf("<tr class=\"trailer\"><td colspan=\"%d\"></td></tr>\n", cols)
		case mode == diffview.ModeSplit:
			w.printf("<tr class=\"%s\">", r.Kind())
			w.cell(lineNum(r.LeftIndex), "left", l.Left, r.HasLeft())
			w.cell(lineNum(r.RightIndex), "right", l.Right, r.HasRight())
			w.str("</tr>\n")
		default:
			class := "unified-codecol"
			switch l.Prefix {
			case "-":
				class += " deleted-original"
			case "+":
				class += " inserted-new"
			}
			w.printf("<tr class=\"%s\"><td class=\"gutter\">%s</td><td class=\"gutter\">%s</td><td class=\"%s\">%s%s</td></tr>\n",
				r.Kind(), lineNum(r.LeftIndex), lineNum(r.RightIndex), class, html.EscapeString(l.Prefix), l.HTML)
		}
		for _, c := range byRow[i] {
			w.comment(c, cols)
		}
	}
	w.str("</table>\n")
	w.footer()
	return w.flush()
}

func (w *writer) cell(num, side, content string, present bool) {
	w.printf("<td class=\"gutter\">%s</td>", num)
	if !present {
		w.printf("<td class=\"%s spacer\"></td>", side)
		return
	}
	w.printf("<td class=\"%s code\">%s</td>", side, content)
}

func (w *writer) comment(c Comment, cols int) {
	w.printf("<tr class=\"comment\"><td colspan=\"%d\"><div class=\"comment\"><span class=\"author\">%s</span><div class=\"body\">%s</div></div></td></tr>\n",
		cols, html.EscapeString(c.Author), html.EscapeString(c.Body))
}

// SnippetLines returns the HTML of each snippet line. Lines that replaced or
// were replaced by a line on the other side get their changed characters
// marked.
func SnippetLines(snip diffview.HunkSnippet, hl highlight.Result) []string {
	out := make([]string, len(snip.Lines))
	for i, sl := range snip.Lines {
		r := sl.Row
		var code, ctx string
		hasCtx := false
		if r.HasLeft() {
			code = hl.Left[r.LeftIndex]
			if r.HasCtxRight() {
				ctx, hasCtx = hl.Right[r.CtxRightIndex], true
			}
		} else {
			code = hl.Right[r.RightIndex]
			if r.HasCtxLeft() {
				ctx, hasCtx = hl.Left[r.CtxLeftIndex], true
			}
		}
		if hasCtx {
			code = intraline.MergeContext(code, ctx)
		}
		out[i] = code
	}
	return out
}

// WriteSnippet renders a review hunk snippet for the file at path.
func WriteSnippet(out io.Writer, path string, snip diffview.HunkSnippet, hl highlight.Result, opts Options) error {
	w := &writer{w: bufio.NewWriter(out)}
	w.header(opts)
	w.str("<table class=\"chroma diff hunk\">\n")
	w.printf("<thead><tr><th colspan=\"3\">%s</th></tr></thead>\n<tbody>\n", html.EscapeString(path))
	if !snip.Empty {
		if !snip.Truncated {
			w.printf("<tr class=\"hunk-header\"><td class=\"gutter\">...</td><td class=\"gutter\">...</td><td>%s</td></tr>\n",
				html.EscapeString(snip.Header))
		}
		for i, code := range SnippetLines(snip, hl) {
			sl := snip.Lines[i]
			class := "unified-codecol"
			switch sl.Prefix {
			case "-":
				class += " deleted-original"
			case "+":
				class += " inserted-new"
			}
			w.printf("<tr><td class=\"gutter\">%s</td><td class=\"gutter\">%s</td><td class=\"%s\">%s%s</td></tr>\n",
				num(sl.LeftNum), num(sl.RightNum), class, sl.Prefix, code)
		}
	}
	w.str("</tbody>\n</table>\n")
	w.footer()
	return w.flush()
}

func num(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
