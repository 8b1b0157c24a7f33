package utils

import (
	"regexp"
	"strings"
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// Tokenize splits text into lowercase whitespace-delimited words.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// StripPunctuation removes everything except word characters and whitespace
// and collapses runs of whitespace.
func StripPunctuation(text string) string {
	cleaned := nonWordRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// TokenSet builds a set of unique lowercase tokens.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// JaccardSimilarity computes |intersection| / |union| over two token sets.
// Returns 0 when either set is empty.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
