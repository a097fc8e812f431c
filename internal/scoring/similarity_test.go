package scoring

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 0}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestNormalizeSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeSimilarity(-1))
	assert.Equal(t, 0.5, NormalizeSimilarity(0))
	assert.Equal(t, 1.0, NormalizeSimilarity(1))
	assert.Equal(t, 0.8, NormalizeSimilarity(4), "regression range")
	assert.InDelta(t, 1/(1+math.Exp(-7)), NormalizeSimilarity(7), 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(3)), NormalizeSimilarity(-3), 1e-12)
	assert.Equal(t, 0.0, NormalizeSimilarity(math.NaN()))
	assert.Equal(t, 0.0, NormalizeSimilarity(math.Inf(-1)))
	assert.Equal(t, 1.0, NormalizeSimilarity(math.Inf(1)))
}

func TestFuseSemantic(t *testing.T) {
	ctx := context.Background()
	sp := DefaultPolicy().Semantic

	t.Run("no pairwise scorer", func(t *testing.T) {
		got, used := FuseSemantic(ctx, nil, "a", "b", 0.6, sp)
		assert.InDelta(t, 0.8, got, 1e-12)
		assert.False(t, used)
	})

	t.Run("blends above gate", func(t *testing.T) {
		pw := &fakePairwise{score: 0.2}
		got, used := FuseSemantic(ctx, pw, "a", "b", 0.6, sp)
		assert.True(t, used)
		assert.InDelta(t, 0.35*0.8+0.65*0.6, got, 1e-12)
	})

	t.Run("gate skips pairwise", func(t *testing.T) {
		pw := &fakePairwise{score: 1}
		got, used := FuseSemantic(ctx, pw, "a", "b", -0.2, sp)
		assert.False(t, used)
		assert.Equal(t, 0, pw.calls)
		assert.InDelta(t, 0.4, got, 1e-12)
	})

	t.Run("pairwise failure falls back", func(t *testing.T) {
		pw := &fakePairwise{err: errBoom}
		got, used := FuseSemantic(ctx, pw, "a", "b", 0.6, sp)
		assert.False(t, used)
		assert.Equal(t, 1, pw.calls)
		assert.InDelta(t, 0.8, got, 1e-12)
	})
}
