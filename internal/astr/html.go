package astr

import (
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// FromHTML parses an HTML fragment. Each text node gets the class lists of
// its enclosing elements, innermost first. Parsing is best effort: stray end
// tags are ignored and unclosed elements extend to the end of the input.
func FromHTML(src string) *String {
	s := New("")
	z := html.NewTokenizer(strings.NewReader(src))
	var stack [][]string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return s
		case html.TextToken:
			var classes []string
			for i := len(stack) - 1; i >= 0; i-- {
				classes = append(classes, stack[i]...)
			}
			s.AppendString(string(z.Text()), classes...)
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if voidElements[string(name)] {
				continue
			}
			var classes []string
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "class" {
					classes = append(classes, strings.Fields(string(val))...)
				}
			}
			stack = append(stack, classes)
		case html.EndTagToken:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// ToHTML renders each run as escaped text, wrapped in a span when it has
// classes.
func (s *String) ToHTML() string {
	var b strings.Builder
	for _, r := range s.Runs() {
		text := escape(r.Text)
		if len(r.Classes) == 0 {
			b.WriteString(text)
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(html.EscapeString(strings.Join(r.Classes, " ")))
		b.WriteString(`">`)
		b.WriteString(text)
		b.WriteString("</span>")
	}
	return b.String()
}

// escape is html.EscapeString plus carriage returns, which the tokenizer
// would otherwise fold into newlines.
func escape(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\r", "&#13;")
}
