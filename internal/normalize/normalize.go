// Package normalize provides canonical forms for data that must deduplicate
// by value, such as addresses.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Field converts a free-form value to its canonical slug.
// "São Paulo" -> "sao-paulo", " 123  Main St. " -> "123-main-st".
func Field(s string) string {
	// Decompose accented characters, then drop the non-ASCII remainder.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return s
}

// Key joins the canonical forms of parts into one dedupe key.
// Empty parts are kept as empty segments so field positions stay aligned.
func Key(parts ...string) string {
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = Field(p)
	}
	return strings.Join(segs, "|")
}
