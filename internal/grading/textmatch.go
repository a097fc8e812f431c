package grading

import (
	"unicode"

	"github.com/hbollon/go-edlib"
)

// normalize does simple casefolding and trims punctuation/extra spaces.
func normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// editDistance is the rune-level Levenshtein distance.
func editDistance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}
