package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
}

func TestPolicyValidate(t *testing.T) {
	cases := map[string]func(*Policy){
		"unknown composer":  func(p *Policy) { p.Composer = "magic" },
		"negative weight":   func(p *Policy) { p.Weights.Length = -0.1 },
		"threshold weight":  func(p *Policy) { p.Threshold.Weights.Semantic = -1 },
		"threshold == 1":    func(p *Policy) { p.Coverage.SoftMatchThreshold = 1 },
		"zero keyword gate": func(p *Policy) { p.Semantic.KeywordGate = 0 },
		"floor order":       func(p *Policy) { p.Semantic.ZeroBelow = 0.7 },
		"negation cap":      func(p *Policy) { p.Negation.MaxPenalty = 1.5 },
		"min tokens":        func(p *Policy) { p.ShortAnswer.MinTokens = 0 },
		"flat score":        func(p *Policy) { p.Threshold.LowNoKeys = 11 },
		"threshold order":   func(p *Policy) { p.Threshold.ZeroBelow = 0.5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := DefaultPolicy()
			mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}
