package scoring

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EntityOverlap is the recall of reference (label, text) entity pairs in the
// candidate. A reference without entities imposes no constraint.
func EntityOverlap(ref, cand ParsedText) float64 {
	type pair struct{ label, text string }
	want := make(map[pair]bool, len(ref.Entities))
	for _, e := range ref.Entities {
		want[pair{e.Label, lower(e.Text)}] = true
	}
	if len(want) == 0 {
		return 1
	}
	got := make(map[pair]bool, len(cand.Entities))
	for _, e := range cand.Entities {
		got[pair{e.Label, lower(e.Text)}] = true
	}
	hits := 0
	for k := range want {
		if got[k] {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

// NumberConsistency is the fraction of reference numbers matched by some
// candidate number within a relative tolerance.
func NumberConsistency(reference, candidate string, p NumberPolicy) float64 {
	want := ExtractNumbers(reference)
	if len(want) == 0 {
		return 1
	}
	got := ExtractNumbers(candidate)
	if len(got) == 0 {
		return 0
	}
	hits := 0
	for _, a := range want {
		tol := math.Max(p.RelTolerance*math.Max(math.Abs(a), 1), 1e-9)
		for _, b := range got {
			if math.Abs(a-b) <= tol {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(want))
}

func negatedHeads(doc ParsedText) map[string]bool {
	out := make(map[string]bool)
	for i, t := range doc.Tokens {
		if t.Negation {
			out[doc.headLemma(i)] = true
		}
	}
	return out
}

// NegationMismatch is a penalty for heads negated in exactly one of the texts.
func NegationMismatch(ref, cand ParsedText, p NegationPolicy) float64 {
	a, b := negatedHeads(ref), negatedHeads(cand)
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	flips := 0
	for h := range a {
		if !b[h] {
			flips++
		}
	}
	for h := range b {
		if !a[h] {
			flips++
		}
	}
	return math.Min(p.MaxPenalty, p.Step*float64(flips))
}

// LengthScore decays exponentially with the candidate/reference token-count
// ratio's distance from 1. The second value is the short-answer multiplier
// applied after composition.
func LengthScore(reference, candidate string, p ShortAnswerPolicy) (float64, float64) {
	refN := tokenCount(reference)
	candN := tokenCount(candidate)
	ratio := float64(candN) / float64(max(1, refN))
	score := math.Exp(-math.Abs(ratio - 1))

	minExpected := max(p.MinTokens, int(math.Round(p.Ratio*float64(refN))))
	mult := 1.0
	if candN < minExpected {
		mult = math.Max(0, float64(candN)/float64(minExpected)*p.Scale)
	}
	return score, mult
}

var wordRE = regexp.MustCompile(`^[A-Za-z']+$`)

// HeuristicGrammar penalizes non-word tokens and stray single letters.
func HeuristicGrammar(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	var nonAlpha, single float64
	for _, t := range tokens {
		if !wordRE.MatchString(t) {
			nonAlpha++
		}
		if utf8.RuneCountInString(t) == 1 && isLetter(t) {
			single++
		}
	}
	penalty := math.Min((0.6*nonAlpha+0.4*single)/float64(len(tokens)), 1)
	return 1 - penalty
}

func isLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

// GrammarScore uses the checker when one is configured, falling back to the
// heuristic when it is absent or fails.
func GrammarScore(ctx context.Context, gc GrammarChecker, text string) float64 {
	if text == "" {
		return 0
	}
	if gc != nil {
		issues, err := gc.CountIssues(ctx, text)
		if err == nil {
			n := max(1, tokenCount(text))
			return 1 - math.Min(float64(issues)/float64(n), 1)
		}
		log.Printf("scoring: grammar checker failed, using heuristic: %v", err)
	}
	return HeuristicGrammar(text)
}
