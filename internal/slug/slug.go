// Package slug turns titles into URL segments.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the words of a slug
const Separator = "-"

var (
	// nonAlnum matches every run of characters that cannot appear in a slug
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	// multipleSeparators matches repeated separators
	multipleSeparators = regexp.MustCompile(`-{2,}`)
)

// Make converts title into a lowercase ASCII slug.
// Letters outside ASCII are transliterated first, so "Zażółć" becomes "zazolc".
// The result is empty when title has no letters or digits.
func Make(title string) string {
	// strip combining marks left after decomposition, then transliterate the rest
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, title)
	if err != nil {
		result = title
	}
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = nonAlnum.ReplaceAllString(result, Separator)
	result = multipleSeparators.ReplaceAllString(result, Separator)

	return strings.Trim(result, Separator)
}

// IsValid reports whether s is already a well-formed slug
func IsValid(s string) bool {
	if s == "" {
		return false
	}
	return Make(s) == s
}
