package resolver

import (
	"strings"
	"unicode"
)

// maxGenerated caps how many guessed ticker symbols get validated per query.
// Each guess costs a profile lookup, so the list stays short.
const maxGenerated = 10

// corporateSuffixes are legal-form words stripped from the end of a company
// name before ticker guessing. "Apple Inc." and "Apple" should guess alike.
var corporateSuffixes = map[string]struct{}{
	"inc":          {},
	"incorporated": {},
	"corp":         {},
	"corporation":  {},
	"co":           {},
	"company":      {},
	"ltd":          {},
	"limited":      {},
	"llc":          {},
	"plc":          {},
	"group":        {},
	"holdings":     {},
	"holding":      {},
	"technologies": {},
	"technology":   {},
	"international": {},
	"enterprises":  {},
	"industries":   {},
	"systems":      {},
	"solutions":    {},
	"sa":           {},
	"ag":           {},
	"nv":           {},
	"se":           {},
}

// GenerateSymbols guesses plausible ticker symbols from a company name.
// Guesses are uppercase, 1 to 5 characters, deduplicated in generation
// order, and capped at maxGenerated.
func GenerateSymbols(companyName string) []string {
	words := nameWords(companyName)
	if len(words) == 0 {
		return nil
	}

	var guesses []string
	add := func(s string) {
		s = strings.ToUpper(s)
		if len(s) < 1 || len(s) > 5 {
			return
		}
		for _, g := range guesses {
			if g == s {
				return
			}
		}
		guesses = append(guesses, s)
	}

	if len(words) == 1 {
		w := words[0]
		for _, n := range []int{2, 3, 4} {
			if len(w) >= n {
				add(w[:n])
			}
		}
		add(w)
	} else {
		// Acronym from word initials.
		var acr strings.Builder
		for _, w := range words {
			acr.WriteByte(w[0])
		}
		add(acr.String())

		first, second := words[0], words[1]
		if len(first) >= 3 {
			add(first[:3])
		}
		if len(first) >= 4 {
			add(first[:4])
		}
		add(first)

		// Letter pairs across the first two words.
		if len(first) >= 2 && len(second) >= 2 {
			add(first[:2] + second[:2])
		}
		if len(first) >= 3 {
			add(first[:3] + second[:1])
		}
	}

	if len(guesses) > maxGenerated {
		guesses = guesses[:maxGenerated]
	}
	return guesses
}

// nameWords lowercases the name, drops punctuation, and strips trailing
// corporate suffix words.
func nameWords(name string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(name))

	words := strings.Fields(cleaned)
	for len(words) > 1 {
		if _, ok := corporateSuffixes[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return words
}
