package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmbeddingMismatch = errors.New("scoring: embedder returned wrong number of vectors")

// SoftKeywordCoverage soft-matches every reference keyphrase against the
// candidate keyphrases. A reference phrase earns credit only when its best
// candidate similarity reaches the soft-match threshold, linearly in the
// remaining headroom. The weighted mean is capped at the policy ceiling.
func SoftKeywordCoverage(ctx context.Context, emb Embedder, ref []Keyphrase, cand []string, p CoveragePolicy) (float64, error) {
	if len(ref) == 0 {
		return 0, nil
	}
	if len(cand) == 0 {
		cand = []string{""}
	}
	refTexts := phraseTexts(ref)
	vecs, err := emb.Embed(ctx, append(append([]string{}, refTexts...), cand...))
	if err != nil {
		return 0, fmt.Errorf("embed keyphrases: %w", err)
	}
	if len(vecs) != len(refTexts)+len(cand) {
		return 0, ErrEmbeddingMismatch
	}
	refVecs, candVecs := vecs[:len(refTexts)], vecs[len(refTexts):]

	headroom := 1 - p.SoftMatchThreshold
	var num, den float64
	for i, k := range ref {
		best := -1.0
		for _, cv := range candVecs {
			if s := Cosine(refVecs[i], cv); s > best {
				best = s
			}
		}
		credit := 0.0
		if best >= p.SoftMatchThreshold {
			credit = (best - p.SoftMatchThreshold) / headroom
		}
		if !strings.Contains(k.Text, " ") {
			credit *= p.SingleWordFactor
		}
		num += clamp01(credit) * k.Weight
		den += k.Weight
	}
	if den == 0 {
		den = 1
	}
	return min(clamp01(num/den), p.Ceiling), nil
}
