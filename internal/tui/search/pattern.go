package search

import (
	"regexp"
	"strings"
	"unicode"
)

// Compile turns a query into a pattern. Queries without upper-case letters
// match case-insensitively. A query that is not a valid regular expression
// is matched literally. The empty query compiles to nil.
func Compile(query string) *regexp.Regexp {
	if query == "" {
		return nil
	}
	prefix := ""
	if !strings.ContainsFunc(query, unicode.IsUpper) {
		prefix = "(?i)"
	}
	if re, err := regexp.Compile(prefix + query); err == nil {
		return re
	}
	return regexp.MustCompile(prefix + regexp.QuoteMeta(query))
}
