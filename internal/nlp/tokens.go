package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// wordRE yields words (with inner apostrophes), numbers with an optional
// decimal part, and single punctuation marks.
var wordRE = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)*|\d+(?:\.\d+)?|[^\sA-Za-z\d]`)

// splitWords tokenizes text, splitting the "n't" clitic off its host.
func splitWords(text string) []string {
	raw := wordRE.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		lw := strings.ToLower(w)
		if len(w) > 3 && strings.HasSuffix(lw, "n't") {
			out = append(out, w[:len(w)-3], w[len(w)-3:])
			continue
		}
		out = append(out, w)
	}
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func isCapitalized(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// stem returns the porter2 stem of a lowercased word.
func stem(w string) string {
	return porter2.Stem(strings.ToLower(w))
}

var (
	determiners  = set("a", "an", "the", "this", "that", "these", "those", "some", "any", "each", "every", "no", "all", "both", "either", "neither", "its", "their", "his", "her", "our", "your", "my")
	pronouns     = set("i", "me", "you", "he", "him", "she", "it", "we", "us", "they", "them", "who", "whom", "which", "what", "itself", "themselves")
	auxiliaries  = set("is", "are", "was", "were", "be", "been", "being", "am", "do", "does", "did", "have", "has", "had", "can", "could", "will", "would", "shall", "should", "may", "might", "must", "ca", "wo")
	conjunctions = set("and", "or", "but", "nor", "so", "yet", "because", "if", "while", "although", "than", "as")
	particles    = set("not", "n't", "to")
	negators     = set("not", "n't", "never", "no")
	adverbs      = set("never", "very", "also", "only", "just", "too", "then", "there", "here", "when", "where", "how", "why", "more", "most", "less", "least")
	prepositions = set("of", "in", "on", "at", "by", "for", "with", "from", "into", "onto", "over", "under", "about", "between", "through", "during", "before", "after", "above", "below", "against", "without", "within", "across", "per", "via")
)

func set(ws ...string) map[string]bool {
	m := make(map[string]bool, len(ws))
	for _, w := range ws {
		m[w] = true
	}
	return m
}

func isStopWord(lw string) bool {
	return determiners[lw] || pronouns[lw] || auxiliaries[lw] || conjunctions[lw] ||
		particles[lw] || adverbs[lw] || prepositions[lw]
}
