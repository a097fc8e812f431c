package scoring

import (
	"context"
	"log"
	"math"
)

// Cosine returns the cosine similarity of a and b, or 0 when the vectors
// differ in length or either has zero norm.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	c := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// NormalizeSimilarity maps a raw similarity reading into [0,1]: cosine range
// [-1,1] maps linearly, a [0,5] regression score is divided by 5, and any
// other real is squashed by the logistic function.
func NormalizeSimilarity(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= -1 && x <= 1:
		return (x + 1) / 2
	case x >= 0 && x <= 5:
		return x / 5
	}
	v := 1 / (1 + math.Exp(-x))
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// FuseSemantic combines the normalized bi-encoder cosine with a pairwise
// relatedness reading. The pairwise scorer is consulted only when it is
// configured and the normalized cosine clears the gate; a pairwise failure
// falls back to the cosine alone.
func FuseSemantic(ctx context.Context, pw PairwiseScorer, reference, candidate string, cosine float64, p SemanticPolicy) (float64, bool) {
	cos := NormalizeSimilarity(cosine)
	if pw == nil || cos <= p.PairwiseGate {
		return cos, false
	}
	raw, err := pw.Score(ctx, reference, candidate)
	if err != nil {
		log.Printf("scoring: pairwise scorer failed, using cosine only: %v", err)
		return cos, false
	}
	return clamp01(p.CosineBlend*cos + p.PairwiseBlend*NormalizeSimilarity(raw)), true
}
