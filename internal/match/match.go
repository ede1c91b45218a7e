// Package match implements fuzzy company-name matching for symbol
// resolution. It wraps the fuzzywuzzy-style similarity metrics behind a
// single [0,100] score so callers never touch the string-matching library
// directly.
package match

import (
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultThreshold is the minimum-confidence score used both to accept a
// validation-sourced candidate and to accept the final top-ranked result.
// One constant, two use-sites.
const DefaultThreshold = 60

// Clean strips punctuation and lower-cases a name for comparison.
func Clean(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Score computes the similarity between two company names as a score in
// [0,100]. It takes the maximum of the plain edit-distance ratio, the
// partial-substring ratio, and the token-sort (order-insensitive) ratio, so
// "Apple Inc" still matches "Apple Inc." and "Motors Tata" still matches
// "Tata Motors". Score is symmetric in its arguments.
func Score(a, b string) float64 {
	ca, cb := Clean(a), Clean(b)
	if ca == "" || cb == "" {
		return 0
	}

	ratio := fuzzy.Ratio(ca, cb)
	partial := fuzzy.PartialRatio(ca, cb)
	tokenSort := fuzzy.TokenSortRatio(ca, cb)

	best := ratio
	if partial > best {
		best = partial
	}
	if tokenSort > best {
		best = tokenSort
	}
	return float64(best)
}

// Passes reports whether two names match at or above the given threshold.
func Passes(a, b string, threshold float64) bool {
	if a == "" || b == "" {
		return false
	}
	return Score(a, b) >= threshold
}
