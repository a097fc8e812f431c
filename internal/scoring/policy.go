package scoring

import (
	"errors"
	"fmt"
)

// Composer names.
const (
	PolicyContinuous = "continuous"
	PolicyThreshold  = "threshold"
)

// Weights are the blend weights of the continuous composer.
type Weights struct {
	Semantic float64 `toml:"semantic" json:"semantic"`
	Grammar  float64 `toml:"grammar" json:"grammar"`
	Keywords float64 `toml:"keywords" json:"keywords"`
	Entities float64 `toml:"entities" json:"entities"`
	Numbers  float64 `toml:"numbers" json:"numbers"`
	Length   float64 `toml:"length" json:"length"`
}

func (w Weights) validate() error {
	for name, v := range map[string]float64{
		"semantic": w.Semantic, "grammar": w.Grammar, "keywords": w.Keywords,
		"entities": w.Entities, "numbers": w.Numbers, "length": w.Length,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be >= 0, got %v", name, v)
		}
	}
	return nil
}

type KeyphrasePolicy struct {
	MultiWordBonus float64 `toml:"multi_word_bonus" json:"multi_word_bonus"`
	EntityBonus    float64 `toml:"entity_bonus" json:"entity_bonus"` // 0 disables
}

type CoveragePolicy struct {
	SoftMatchThreshold float64 `toml:"soft_match_threshold" json:"soft_match_threshold"`
	Ceiling            float64 `toml:"ceiling" json:"ceiling"`
	SingleWordFactor   float64 `toml:"single_word_factor" json:"single_word_factor"` // 1 disables
}

type SemanticPolicy struct {
	PairwiseGate  float64 `toml:"pairwise_gate" json:"pairwise_gate"`
	CosineBlend   float64 `toml:"cosine_blend" json:"cosine_blend"`
	PairwiseBlend float64 `toml:"pairwise_blend" json:"pairwise_blend"`
	KeywordGate   float64 `toml:"keyword_gate" json:"keyword_gate"`
	ZeroBelow     float64 `toml:"zero_below" json:"zero_below"`
	FloorBelow    float64 `toml:"floor_below" json:"floor_below"`
	FloorScale    float64 `toml:"floor_scale" json:"floor_scale"`
}

type NegationPolicy struct {
	Step       float64 `toml:"step" json:"step"`
	MaxPenalty float64 `toml:"max_penalty" json:"max_penalty"`
}

type NumberPolicy struct {
	RelTolerance float64 `toml:"rel_tolerance" json:"rel_tolerance"`
}

type ShortAnswerPolicy struct {
	Enabled   bool    `toml:"enabled" json:"enabled"`
	MinTokens int     `toml:"min_tokens" json:"min_tokens"`
	Ratio     float64 `toml:"ratio" json:"ratio"`
	Scale     float64 `toml:"scale" json:"scale"`
}

// ThresholdPolicy configures the hard-cutoff composer.
type ThresholdPolicy struct {
	ZeroBelow     float64 `toml:"zero_below" json:"zero_below"`
	LowBelow      float64 `toml:"low_below" json:"low_below"`
	KeywordMin    float64 `toml:"keyword_min" json:"keyword_min"`
	LowWithKeys   float64 `toml:"low_with_keywords" json:"low_with_keywords"`
	LowNoKeys     float64 `toml:"low_without_keywords" json:"low_without_keywords"`
	Weights       Weights `toml:"weights" json:"weights"`
	ApplyNegation bool    `toml:"apply_negation" json:"apply_negation"`
}

// Policy is the complete, tunable grading policy. Every threshold and weight
// used by the scorers and composers is read from here.
type Policy struct {
	Composer    string            `toml:"composer" json:"composer"`
	Weights     Weights           `toml:"weights" json:"weights"`
	Keyphrase   KeyphrasePolicy   `toml:"keyphrase" json:"keyphrase"`
	Coverage    CoveragePolicy    `toml:"coverage" json:"coverage"`
	Semantic    SemanticPolicy    `toml:"semantic" json:"semantic"`
	Negation    NegationPolicy    `toml:"negation" json:"negation"`
	Numbers     NumberPolicy      `toml:"numbers" json:"numbers"`
	ShortAnswer ShortAnswerPolicy `toml:"short_answer" json:"short_answer"`
	Threshold   ThresholdPolicy   `toml:"threshold" json:"threshold"`
}

// DefaultPolicy returns the strict, meaning-first policy.
func DefaultPolicy() Policy {
	return Policy{
		Composer: PolicyContinuous,
		Weights: Weights{
			Semantic: 0.70,
			Grammar:  0.05,
			Keywords: 0.03,
			Entities: 0.06,
			Numbers:  0.06,
			Length:   0.10,
		},
		Keyphrase: KeyphrasePolicy{MultiWordBonus: 1.0, EntityBonus: 1.0},
		Coverage:  CoveragePolicy{SoftMatchThreshold: 0.75, Ceiling: 0.9, SingleWordFactor: 0.5},
		Semantic: SemanticPolicy{
			PairwiseGate:  0.45,
			CosineBlend:   0.35,
			PairwiseBlend: 0.65,
			KeywordGate:   0.8,
			ZeroBelow:     0.30,
			FloorBelow:    0.60,
			FloorScale:    0.5,
		},
		Negation:    NegationPolicy{Step: 0.12, MaxPenalty: 0.30},
		Numbers:     NumberPolicy{RelTolerance: 0.01},
		ShortAnswer: ShortAnswerPolicy{Enabled: true, MinTokens: 3, Ratio: 0.45, Scale: 0.5},
		Threshold: ThresholdPolicy{
			ZeroBelow:   0.30,
			LowBelow:    0.45,
			KeywordMin:  0.30,
			LowWithKeys: 1.0,
			LowNoKeys:   0.5,
			Weights: Weights{
				Semantic: 0.60,
				Grammar:  0.05,
				Keywords: 0.15,
				Entities: 0.05,
				Numbers:  0.05,
				Length:   0.10,
			},
			ApplyNegation: true,
		},
	}
}

func unit(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be in [0,1], got %v", name, v)
	}
	return nil
}

// Validate reports the first out-of-range parameter.
func (p Policy) Validate() error {
	if _, err := ComposerFor(p.Composer); err != nil {
		return err
	}
	if err := p.Weights.validate(); err != nil {
		return err
	}
	if err := p.Threshold.Weights.validate(); err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	if p.Keyphrase.MultiWordBonus < 0 || p.Keyphrase.EntityBonus < 0 {
		return errors.New("keyphrase bonuses must be >= 0")
	}
	if p.Coverage.SoftMatchThreshold >= 1 {
		return errors.New("coverage.soft_match_threshold must be < 1")
	}
	if p.Semantic.KeywordGate <= 0 || p.Semantic.FloorBelow <= 0 {
		return errors.New("semantic.keyword_gate and semantic.floor_below must be > 0")
	}
	if p.ShortAnswer.MinTokens < 1 {
		return errors.New("short_answer.min_tokens must be >= 1")
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"coverage.soft_match_threshold", p.Coverage.SoftMatchThreshold},
		{"coverage.ceiling", p.Coverage.Ceiling},
		{"coverage.single_word_factor", p.Coverage.SingleWordFactor},
		{"semantic.pairwise_gate", p.Semantic.PairwiseGate},
		{"semantic.cosine_blend", p.Semantic.CosineBlend},
		{"semantic.pairwise_blend", p.Semantic.PairwiseBlend},
		{"semantic.zero_below", p.Semantic.ZeroBelow},
		{"semantic.floor_below", p.Semantic.FloorBelow},
		{"semantic.floor_scale", p.Semantic.FloorScale},
		{"negation.step", p.Negation.Step},
		{"negation.max_penalty", p.Negation.MaxPenalty},
		{"numbers.rel_tolerance", p.Numbers.RelTolerance},
		{"short_answer.ratio", p.ShortAnswer.Ratio},
		{"short_answer.scale", p.ShortAnswer.Scale},
		{"threshold.zero_below", p.Threshold.ZeroBelow},
		{"threshold.low_below", p.Threshold.LowBelow},
		{"threshold.keyword_min", p.Threshold.KeywordMin},
	}
	for _, c := range checks {
		if err := unit(c.name, c.v); err != nil {
			return err
		}
	}
	if p.Semantic.ZeroBelow > p.Semantic.FloorBelow {
		return errors.New("semantic.zero_below must not exceed semantic.floor_below")
	}
	if p.Threshold.ZeroBelow > p.Threshold.LowBelow {
		return errors.New("threshold.zero_below must not exceed threshold.low_below")
	}
	if p.Threshold.LowWithKeys < 0 || p.Threshold.LowWithKeys > 10 ||
		p.Threshold.LowNoKeys < 0 || p.Threshold.LowNoKeys > 10 {
		return errors.New("threshold flat scores must be in [0,10]")
	}
	return nil
}
