package scoring

import (
	"fmt"
	"math"
)

// Composition is a fused score plus the signals as the composer saw them
// (sanitized, with KeywordEffective filled in) and the weights it blended with.
type Composition struct {
	Score   float64
	Signals SignalVector
	Weights Weights
}

// Composer fuses a signal vector into a final score in [0,10].
type Composer interface {
	Name() string
	Compose(s SignalVector, p Policy) Composition
}

// ComposerFor returns the composer registered under name; "" selects the
// continuous composer.
func ComposerFor(name string) (Composer, error) {
	switch name {
	case "", PolicyContinuous:
		return continuousComposer{}, nil
	case PolicyThreshold:
		return thresholdComposer{}, nil
	default:
		return nil, fmt.Errorf("unknown composer %q", name)
	}
}

// sanitize absorbs NaN and out-of-range readings from external capabilities.
func sanitize(s SignalVector, maxPenalty float64) SignalVector {
	s.Semantic = clamp01(s.Semantic)
	s.Grammar = clamp01(s.Grammar)
	s.KeywordCoverage = clamp01(s.KeywordCoverage)
	s.EntityOverlap = clamp01(s.EntityOverlap)
	s.NumberConsistency = clamp01(s.NumberConsistency)
	s.LengthScore = clamp01(s.LengthScore)
	s.ShortMultiplier = clamp01(s.ShortMultiplier)
	s.NegationPenalty = math.Min(clamp01(s.NegationPenalty), maxPenalty)
	return s
}

// WeightedSum is the linear blend of credit signals, using KeywordEffective
// for the keyword term.
func WeightedSum(s SignalVector, w Weights) float64 {
	return w.Semantic*s.Semantic +
		w.Grammar*s.Grammar +
		w.Keywords*s.KeywordEffective +
		w.Entities*s.EntityOverlap +
		w.Numbers*s.NumberConsistency +
		w.Length*s.LengthScore
}

func toTen(x float64) float64 { return round2(clamp01(x) * 10) }

// continuousComposer gates keyword credit by semantic strength, subtracts
// the negation penalty, applies the graded semantic floor and finally the
// short-answer multiplier.
type continuousComposer struct{}

func (continuousComposer) Name() string { return PolicyContinuous }

func (continuousComposer) Compose(s SignalVector, p Policy) Composition {
	s = sanitize(s, p.Negation.MaxPenalty)
	s.KeywordEffective = s.KeywordCoverage * math.Min(1, s.Semantic/p.Semantic.KeywordGate)

	w := math.Max(0, WeightedSum(s, p.Weights)-s.NegationPenalty)

	switch sp := p.Semantic; {
	case s.Semantic < sp.ZeroBelow:
		w = 0
	case s.Semantic < sp.FloorBelow:
		w *= s.Semantic / sp.FloorBelow * sp.FloorScale
	}

	if p.ShortAnswer.Enabled {
		w *= s.ShortMultiplier
	}
	return Composition{Score: toTen(w), Signals: s, Weights: p.Weights}
}

// thresholdComposer produces flat scores below hard semantic cutoffs and an
// ungated blend above them.
type thresholdComposer struct{}

func (thresholdComposer) Name() string { return PolicyThreshold }

func (thresholdComposer) Compose(s SignalVector, p Policy) Composition {
	s = sanitize(s, p.Negation.MaxPenalty)
	s.KeywordEffective = s.KeywordCoverage
	tp := p.Threshold

	switch {
	case s.Semantic < tp.ZeroBelow:
		return Composition{Score: 0, Signals: s, Weights: tp.Weights}
	case s.Semantic < tp.LowBelow:
		if s.KeywordCoverage >= tp.KeywordMin {
			return Composition{Score: tp.LowWithKeys, Signals: s, Weights: tp.Weights}
		}
		return Composition{Score: tp.LowNoKeys, Signals: s, Weights: tp.Weights}
	}

	w := WeightedSum(s, tp.Weights)
	if tp.ApplyNegation {
		w = math.Max(0, w-s.NegationPenalty)
	}
	return Composition{Score: toTen(w), Signals: s, Weights: tp.Weights}
}
