// Package highlight turns source text into per-line HTML with chroma token
// classes, and runs highlighting off the UI goroutine.
package highlight

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"golang.org/x/net/html"

	"github.com/interpretive-systems/rowdiff/internal/lines"
)

// Request asks for both sides of a diff to be highlighted. Generation is
// echoed back in the Response so stale results can be told apart.
type Request struct {
	Generation uint64
	Filename   string
	Left       string
	Right      string
}

// Result holds one HTML fragment per line of each side, index-aligned with
// lines.Split of the request texts.
type Result struct {
	Language string
	Left     []string
	Right    []string
}

// Response is a Result tagged with the generation of its Request.
type Response struct {
	Generation uint64
	Result     Result
	Err        error
}

// Highlight highlights both sides of req with one lexer chosen from the
// filename, or from the right text (then the left) when the name says
// nothing.
func Highlight(req Request) (Result, error) {
	lexer := LexerFor(req.Filename, req.Right)
	if lexer == nil && !IsPlain(req.Filename) {
		lexer = LexerFor(req.Filename, req.Left)
	}
	res := Result{Language: "text"}
	if lexer != nil {
		res.Language = lexer.Config().Name
		lexer = chroma.Coalesce(lexer)
	}

	var err error
	if res.Left, err = Lines(lexer, req.Left); err != nil {
		return Result{}, fmt.Errorf("highlight %s (left): %w", req.Filename, err)
	}
	if res.Right, err = Lines(lexer, req.Right); err != nil {
		return Result{}, fmt.Errorf("highlight %s (right): %w", req.Filename, err)
	}
	return res, nil
}

// Lines highlights text and splits the HTML into one balanced fragment per
// line. A nil lexer escapes the text without adding spans.
func Lines(lexer chroma.Lexer, text string) ([]string, error) {
	src := lines.Split(text)
	if lexer == nil {
		out := make([]string, len(src))
		for i, l := range src {
			out[i] = html.EscapeString(l)
		}
		return out, nil
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if err := (classFormatter{}).Format(&b, nil, it); err != nil {
		return nil, err
	}
	out := SplitHTML(b.String())

	// Lexers may add a trailing newline.
	if len(out) > len(src) {
		out = out[:len(src)]
	}
	for i := len(out); i < len(src); i++ {
		out = append(out, html.EscapeString(src[i]))
	}
	return out, nil
}

// classFormatter writes tokens as spans carrying chroma's short class names
// ("k", "nf", "s2"). It implements chroma.Formatter; the style is unused,
// colours come from CSS or the terminal theme.
type classFormatter struct{}

var _ chroma.Formatter = classFormatter{}

func (classFormatter) Format(w io.Writer, _ *chroma.Style, it chroma.Iterator) error {
	for tok := it(); tok != chroma.EOF; tok = it() {
		text := html.EscapeString(tok.Value)
		class := TokenClass(tok.Type)
		var err error
		if class == "" {
			_, err = io.WriteString(w, text)
		} else {
			_, err = fmt.Fprintf(w, `<span class="%s">%s</span>`, class, text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// TokenClass returns the CSS class chroma uses for tt, falling back to its
// sub-category and category. Plain text has no class.
func TokenClass(tt chroma.TokenType) string {
	if tt == chroma.Text || tt == chroma.Background {
		return ""
	}
	for _, t := range []chroma.TokenType{tt, tt.SubCategory(), tt.Category()} {
		if class, ok := chroma.StandardTypes[t]; ok && class != "" {
			return class
		}
	}
	return ""
}

var spanTagRe = regexp.MustCompile(`(<span[^>]*>)|(</span>)`)

// SplitHTML splits highlighted HTML into lines. Spans left open at the end of
// a line are closed there and reopened at the start of the next, so every
// fragment is balanced.
func SplitHTML(src string) []string {
	var open []string
	out := lines.Split(src)
	for i, line := range out {
		prefix := strings.Join(open, "")
		for _, tag := range spanTagRe.FindAllString(line, -1) {
			if strings.HasPrefix(tag, "</") {
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			} else {
				open = append(open, tag)
			}
		}
		out[i] = prefix + line + strings.Repeat("</span>", len(open))
	}
	return out
}
