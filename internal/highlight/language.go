package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// extAliases maps file extensions chroma resolves differently than wanted.
var extAliases = map[string]string{
	"m": "objective-c",
}

// IsPlain reports whether filename is shown without syntax highlighting:
// files with no extension, or a .txt/.text extension.
func IsPlain(filename string) bool {
	ext := extension(filename)
	return ext == "" || strings.EqualFold(ext, "txt") || strings.EqualFold(ext, "text")
}

func extension(filename string) string {
	return strings.TrimPrefix(filepath.Ext(filepath.Base(filename)), ".")
}

// LexerFor picks a lexer for filename. When the name does not identify a
// language, the lexer is guessed from sample. It returns nil for plain text.
func LexerFor(filename, sample string) chroma.Lexer {
	if IsPlain(filename) {
		return nil
	}
	ext := extension(filename)
	if alias, ok := extAliases[strings.ToLower(ext)]; ok {
		if l := lexers.Get(alias); l != nil {
			return l
		}
	}
	if l := lexers.Match(filepath.Base(filename)); l != nil {
		return l
	}
	if l := lexers.Get(ext); l != nil && l != lexers.Fallback {
		return l
	}
	if l := lexers.Analyse(sample); l != nil {
		return l
	}
	return nil
}

// LanguageName returns the name of the lexer chosen for filename, or "text".
func LanguageName(filename, sample string) string {
	if l := LexerFor(filename, sample); l != nil {
		return l.Config().Name
	}
	return "text"
}
