package theme

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/rowdiff/internal/astr"
	"github.com/interpretive-systems/rowdiff/internal/intraline"
	"github.com/interpretive-systems/rowdiff/internal/session"
)

const tabWidth = 4

// Palette turns highlighted HTML fragments into terminal text. Token classes
// take their colors from a chroma style; change and search classes take
// their backgrounds from the theme.
type Palette struct {
	theme  Theme
	tokens map[string]lipgloss.Style
}

// NewPalette builds a palette for the named chroma style. Unknown names fall
// back to chroma's default style.
func NewPalette(t Theme, styleName string) *Palette {
	style := styles.Get(styleName)
	p := &Palette{theme: t, tokens: make(map[string]lipgloss.Style, len(chroma.StandardTypes))}
	for tt, class := range chroma.StandardTypes {
		if class == "" {
			continue
		}
		p.tokens[class] = entryStyle(style.Get(tt))
	}
	return p
}

func entryStyle(e chroma.StyleEntry) lipgloss.Style {
	st := lipgloss.NewStyle()
	if e.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(e.Colour.String()))
	}
	if e.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if e.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if e.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func (p *Palette) Theme() Theme { return p.theme }

// Style layers the styles of classes over base. Classes come innermost first
// and the innermost token class decides the foreground.
func (p *Palette) Style(base lipgloss.Style, classes []string) lipgloss.Style {
	st := base
	var changed, match, current bool
	for i := len(classes) - 1; i >= 0; i-- {
		switch c := classes[i]; c {
		case intraline.ChangedClass:
			changed = true
		case session.MatchClass:
			match = true
		case session.CurrentMatchClass:
			current = true
		default:
			if tok, ok := p.tokens[c]; ok {
				st = st.Inherit(tok)
				if tok.GetForeground() != (lipgloss.NoColor{}) {
					st = st.Foreground(tok.GetForeground())
				}
			}
		}
	}
	switch {
	case current:
		st = st.Background(lipgloss.Color(p.theme.CurrentMatchBgColor)).Foreground(lipgloss.Color("0"))
	case match:
		st = st.Background(lipgloss.Color(p.theme.MatchBgColor)).Foreground(lipgloss.Color("0"))
	case changed:
		st = st.Background(lipgloss.Color(p.theme.ChangedBgColor))
	}
	return st
}

// Render converts one highlighted line to styled terminal text.
func (p *Palette) Render(html string, base lipgloss.Style) string {
	var b strings.Builder
	for _, run := range astr.FromHTML(html).Runs() {
		text := expandTabs(run.Text)
		if text == "" {
			continue
		}
		b.WriteString(p.Style(base, run.Classes).Render(text))
	}
	return b.String()
}

// Plain returns the text of a highlighted line without any styling.
func Plain(html string) string {
	return expandTabs(astr.FromHTML(html).ToPlainText())
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
