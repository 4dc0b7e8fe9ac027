// Package slug derives filesystem-safe names from human-readable record
// names. The splitter uses slugs to name per-record output files, so the
// transformation must be pure and deterministic for identical input.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// nonASCII drops every rune outside the ASCII range. Runes that have no
// ASCII form are removed outright rather than replaced with a placeholder;
// distinct names may collapse to the same slug, which the splitter's
// collision retry handles.
var nonASCII = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// Make converts name into a slug: ASCII only, lower-cased, spaces replaced
// with underscores, every character outside [a-z0-9_-] removed. The result
// may be empty when the input is empty or entirely non-ASCII.
func Make(name string) string {
	ascii, _, err := transform.String(nonASCII, name)
	if err != nil {
		// Remove never fails on valid UTF-8; fall back to the raw name
		// and let the character filter below do the work.
		ascii = name
	}

	var b strings.Builder
	b.Grow(len(ascii))

	for _, r := range strings.ToLower(ascii) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	return b.String()
}
