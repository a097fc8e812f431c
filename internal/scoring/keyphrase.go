package scoring

import (
	"strings"
	"unicode/utf8"
)

var contentPOS = map[string]bool{"NOUN": true, "PROPN": true, "VERB": true, "ADJ": true}

// ExtractKeyphrases derives the weighted keyphrase set of a parsed text:
// entity texts, content lemmas of noun chunks and content-word lemmas.
// Phrases are deduplicated and returned in first-seen order.
func ExtractKeyphrases(doc ParsedText, p KeyphrasePolicy) []Keyphrase {
	seen := make(map[string]bool)
	var phrases []string
	add := func(s string) {
		if utf8.RuneCountInString(s) <= 1 || seen[s] {
			return
		}
		seen[s] = true
		phrases = append(phrases, s)
	}

	entities := make(map[string]bool, len(doc.Entities))
	for _, e := range doc.Entities {
		t := lower(e.Text)
		entities[t] = true
		add(t)
	}

	for _, nc := range doc.NounChunks {
		start := min(max(nc.Start, 0), len(doc.Tokens))
		end := min(nc.End, len(doc.Tokens))
		if start >= end {
			continue
		}
		var lemmas []string
		for _, t := range doc.Tokens[start:end] {
			if t.IsAlpha && !t.IsStop {
				lemmas = append(lemmas, lower(t.Lemma))
			}
		}
		if len(lemmas) > 0 {
			add(strings.Join(lemmas, " "))
		}
	}

	for _, t := range doc.Tokens {
		if t.IsAlpha && !t.IsStop && contentPOS[t.POS] {
			add(lower(t.Lemma))
		}
	}

	out := make([]Keyphrase, 0, len(phrases))
	for _, ph := range phrases {
		w := 1.0
		if strings.Contains(ph, " ") {
			w += p.MultiWordBonus
		}
		if entities[ph] {
			w += p.EntityBonus
		}
		out = append(out, Keyphrase{Text: ph, Weight: w})
	}
	return out
}

func phraseTexts(ks []Keyphrase) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.Text
	}
	return out
}
