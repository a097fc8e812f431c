package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allOnes(semantic float64) SignalVector {
	return SignalVector{
		Semantic:          semantic,
		Grammar:           1,
		KeywordCoverage:   1,
		EntityOverlap:     1,
		NumberConsistency: 1,
		LengthScore:       1,
		ShortMultiplier:   1,
	}
}

func TestContinuousComposer(t *testing.T) {
	p := DefaultPolicy()
	c, err := ComposerFor(PolicyContinuous)
	require.NoError(t, err)

	cases := []struct {
		name string
		in   SignalVector
		want float64
	}{
		{"semantic below zero cutoff", allOnes(0.25), 0},
		{"strong answer", SignalVector{Semantic: 1, Grammar: 1, KeywordCoverage: 0.9, EntityOverlap: 1, NumberConsistency: 1, LengthScore: 1, ShortMultiplier: 1}, 9.97},
		{"graded floor", SignalVector{Semantic: 0.5, Grammar: 1, EntityOverlap: 1, NumberConsistency: 1, LengthScore: 1, ShortMultiplier: 1}, 2.58},
		{"short answer", SignalVector{Semantic: 1, Grammar: 1, EntityOverlap: 1, NumberConsistency: 1, LengthScore: 1, ShortMultiplier: 0.5}, 4.85},
		{"negation", SignalVector{Semantic: 1, Grammar: 1, EntityOverlap: 1, NumberConsistency: 1, LengthScore: 1, ShortMultiplier: 1, NegationPenalty: 0.3}, 6.7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Compose(tc.in, p)
			assert.InDelta(t, tc.want, got.Score, 0.005)
		})
	}
}

func TestContinuousComposerShortAnswerDisabled(t *testing.T) {
	p := DefaultPolicy()
	p.ShortAnswer.Enabled = false
	s := SignalVector{Semantic: 1, Grammar: 1, EntityOverlap: 1, NumberConsistency: 1, LengthScore: 1, ShortMultiplier: 0.1}
	got := continuousComposer{}.Compose(s, p)
	assert.InDelta(t, 9.7, got.Score, 0.005)
}

func TestKeywordGateNeverAmplifies(t *testing.T) {
	p := DefaultPolicy()
	for _, sem := range []float64{0, 0.2, 0.5, 0.79, 0.8, 0.95, 1} {
		for _, cov := range []float64{0, 0.3, 0.9} {
			s := allOnes(sem)
			s.KeywordCoverage = cov
			for _, c := range []Composer{continuousComposer{}, thresholdComposer{}} {
				out := c.Compose(s, p).Signals
				assert.LessOrEqual(t, out.KeywordEffective, out.KeywordCoverage, "%s sem=%v cov=%v", c.Name(), sem, cov)
			}
		}
	}
	out := continuousComposer{}.Compose(SignalVector{Semantic: 0.4, KeywordCoverage: 0.8}, p).Signals
	assert.InDelta(t, 0.4, out.KeywordEffective, 1e-12)
}

func TestWeightedSumMonotonicInSemantic(t *testing.T) {
	p := DefaultPolicy()
	prev := -1.0
	for sem := 0.0; sem <= 1.0; sem += 0.05 {
		s := allOnes(sem)
		s.KeywordCoverage = 0.7
		s.KeywordEffective = s.KeywordCoverage * math.Min(1, sem/p.Semantic.KeywordGate)
		w := WeightedSum(s, p.Weights)
		assert.GreaterOrEqual(t, w, prev)
		prev = w
	}
}

func TestComposersStayInRange(t *testing.T) {
	p := DefaultPolicy()
	weird := []SignalVector{
		{Semantic: math.NaN(), Grammar: math.NaN(), ShortMultiplier: math.NaN()},
		{Semantic: 7, Grammar: 3, KeywordCoverage: 2, EntityOverlap: 5, NumberConsistency: 9, LengthScore: 4, ShortMultiplier: 8},
		{Semantic: -3, Grammar: -1, NegationPenalty: -2},
		{Semantic: math.Inf(1), NegationPenalty: math.Inf(1), ShortMultiplier: 1},
		allOnes(1),
	}
	for _, c := range []Composer{continuousComposer{}, thresholdComposer{}} {
		for _, s := range weird {
			got := c.Compose(s, p)
			assert.GreaterOrEqual(t, got.Score, 0.0, c.Name())
			assert.LessOrEqual(t, got.Score, 10.0, c.Name())
			assert.LessOrEqual(t, got.Signals.NegationPenalty, p.Negation.MaxPenalty)
		}
	}
}

func TestThresholdComposer(t *testing.T) {
	p := DefaultPolicy()
	c, err := ComposerFor(PolicyThreshold)
	require.NoError(t, err)
	assert.Equal(t, PolicyThreshold, c.Name())

	assert.Equal(t, 0.0, c.Compose(allOnes(0.2), p).Score)

	low := allOnes(0.4)
	low.KeywordCoverage = 0.5
	assert.Equal(t, 1.0, c.Compose(low, p).Score)
	low.KeywordCoverage = 0.1
	assert.Equal(t, 0.5, c.Compose(low, p).Score)

	assert.InDelta(t, 10.0, c.Compose(allOnes(1), p).Score, 0.005)

	neg := allOnes(1)
	neg.NegationPenalty = 0.24
	assert.InDelta(t, 7.6, c.Compose(neg, p).Score, 0.005)
}

func TestComposerForUnknown(t *testing.T) {
	_, err := ComposerFor("bayesian")
	assert.Error(t, err)
	c, err := ComposerFor("")
	require.NoError(t, err)
	assert.Equal(t, PolicyContinuous, c.Name())
}
