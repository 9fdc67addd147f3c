// Package similarity provides the string distance primitives used by the
// attribute and weapon matchers.
package similarity

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// EditDistance returns the classic Levenshtein distance between a and b:
// the minimum number of single-character insertions, deletions and
// substitutions turning a into b. Comparison is case-sensitive.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// NearMiss reports whether two tokens differ by at most one edit and both
// are long enough for that to be meaningful.
func NearMiss(a, b string) bool {
	if len(a) <= 3 || len(b) <= 3 {
		return false
	}
	return EditDistance(a, b) <= 1
}

// Tokenize lowercases s and splits it on whitespace and slashes.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '/'
	})
}

// Normalize lowercases s and strips everything except ASCII letters and digits.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
