package nlp

import (
	"context"
	"strings"

	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// RuleParser is an offline Parser built on word lists, suffix heuristics and
// porter2 stems. It approximates the parts of a statistical pipeline the
// scorer reads: content POS, negation heads, entities and noun chunks.
type RuleParser struct{}

func NewRuleParser() RuleParser { return RuleParser{} }

func (RuleParser) Parse(_ context.Context, text string) (scoring.ParsedText, error) {
	words := splitWords(text)
	toks := make([]scoring.Token, len(words))
	sentStart := make([]bool, len(words))

	start := true
	for i, w := range words {
		lw := strings.ToLower(w)
		t := scoring.Token{Text: w, Lemma: lw, IsAlpha: isAlpha(w), Head: i}
		t.IsStop = isStopWord(lw)
		if t.IsAlpha && !t.IsStop {
			t.Lemma = stem(w)
		}
		sentStart[i] = start
		start = lw == "." || lw == "!" || lw == "?"
		toks[i] = t
	}
	for i := range toks {
		toks[i].POS = tagPOS(toks, i, sentStart[i])
	}
	attachNegators(toks)

	return scoring.ParsedText{
		Tokens:     toks,
		Entities:   findEntities(toks, sentStart),
		NounChunks: findChunks(toks),
	}, nil
}

func tagPOS(toks []scoring.Token, i int, sentStart bool) string {
	t := toks[i]
	lw := strings.ToLower(t.Text)
	switch {
	case isNumber(t.Text):
		return "NUM"
	case !t.IsAlpha && !negators[lw]:
		return "PUNCT"
	case negators[lw] && lw != "no", particles[lw]:
		return "PART"
	case determiners[lw]:
		return "DET"
	case pronouns[lw]:
		return "PRON"
	case auxiliaries[lw]:
		return "AUX"
	case conjunctions[lw]:
		return "CCONJ"
	case adverbs[lw]:
		return "ADV"
	case prepositions[lw]:
		return "ADP"
	case isCapitalized(t.Text) && !sentStart:
		return "PROPN"
	}

	switch {
	case strings.HasSuffix(lw, "ly"):
		return "ADV"
	case hasAnySuffix(lw, "ous", "ful", "ive", "able", "ible", "al", "ic", "less", "ary", "ent", "ant"):
		return "ADJ"
	case hasAnySuffix(lw, "ing", "ed", "ize", "ise", "ify"):
		return "VERB"
	}
	if i > 0 {
		switch toks[i-1].POS {
		case "PRON", "AUX", "PART":
			return "VERB"
		}
		if toks[i-1].POS == "NOUN" && strings.HasSuffix(lw, "s") {
			return "VERB"
		}
		if toks[i-1].POS == "NOUN" && i+1 < len(toks) && determiners[strings.ToLower(toks[i+1].Text)] {
			return "VERB"
		}
	}
	return "NOUN"
}

func hasAnySuffix(w string, suffixes ...string) bool {
	for _, s := range suffixes {
		if len(w) > len(s)+2 && strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}

// attachNegators flags negators and points them at the content word they
// negate: the next one in the sentence, else the previous one.
func attachNegators(toks []scoring.Token) {
	content := func(t scoring.Token) bool { return t.IsAlpha && !t.IsStop }
	for i := range toks {
		if !negators[strings.ToLower(toks[i].Text)] {
			continue
		}
		toks[i].Negation = true
		head := -1
		for j := i + 1; j < len(toks) && toks[j].POS != "PUNCT"; j++ {
			if content(toks[j]) {
				head = j
				break
			}
		}
		for j := i - 1; head < 0 && j >= 0 && toks[j].POS != "PUNCT"; j-- {
			if content(toks[j]) {
				head = j
			}
		}
		if head >= 0 {
			toks[i].Head = head
		}
	}
}

// findEntities reports runs of capitalised content words as NAME entities,
// skipping a lone capitalised sentence opener, and numbers as CARDINAL or
// PERCENT.
func findEntities(toks []scoring.Token, sentStart []bool) []scoring.Entity {
	var out []scoring.Entity
	for i := 0; i < len(toks); {
		t := toks[i]
		if isNumber(t.Text) {
			if i+1 < len(toks) && toks[i+1].Text == "%" {
				out = append(out, scoring.Entity{Label: "PERCENT", Text: t.Text + "%"})
				i += 2
				continue
			}
			out = append(out, scoring.Entity{Label: "CARDINAL", Text: t.Text})
			i++
			continue
		}
		if !t.IsAlpha || t.IsStop || !isCapitalized(t.Text) {
			i++
			continue
		}
		j := i
		for j < len(toks) && toks[j].IsAlpha && !toks[j].IsStop && isCapitalized(toks[j].Text) {
			j++
		}
		if !(sentStart[i] && j-i == 1) {
			parts := make([]string, 0, j-i)
			for _, tt := range toks[i:j] {
				parts = append(parts, tt.Text)
			}
			out = append(out, scoring.Entity{Label: "NAME", Text: strings.Join(parts, " ")})
		}
		i = j
	}
	return out
}

// findChunks returns determiner-led adjective/noun runs that end in a noun.
func findChunks(toks []scoring.Token) []scoring.NounChunk {
	nominal := func(pos string) bool { return pos == "NOUN" || pos == "PROPN" }
	var out []scoring.NounChunk
	for i := 0; i < len(toks); {
		pos := toks[i].POS
		if pos != "ADJ" && !nominal(pos) {
			i++
			continue
		}
		j := i
		for j < len(toks) && (toks[j].POS == "ADJ" || nominal(toks[j].POS)) {
			j++
		}
		end := j
		for end > i && !nominal(toks[end-1].POS) {
			end--
		}
		if end > i {
			start := i
			if start > 0 && toks[start-1].POS == "DET" {
				start--
			}
			out = append(out, scoring.NounChunk{Start: start, End: end})
		}
		i = j
	}
	return out
}
