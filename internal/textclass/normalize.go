// Package textclass detects legal-risk and amenity signals in free-text
// listing descriptions with a versioned keyword rule table.
package textclass

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text and strips diacritics so that rule terms match
// regardless of accent usage ("ático" and "atico" are the same token).
func Normalize(text string) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		// Mn removal cannot fail on valid UTF-8; fall back to the raw text.
		folded = text
	}
	return strings.ToLower(folded)
}
