package scoring

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityOverlap(t *testing.T) {
	ref := ParsedText{Entities: []Entity{{"PERSON", "Newton"}, {"DATE", "1687"}}}

	assert.Equal(t, 1.0, EntityOverlap(ParsedText{}, ref), "no reference entities")
	assert.Equal(t, 0.5, EntityOverlap(ref, ParsedText{Entities: []Entity{{"PERSON", "newton"}}}))
	assert.Equal(t, 0.0, EntityOverlap(ref, ParsedText{Entities: []Entity{{"ORG", "Newton"}}}), "label must agree")
	extra := ParsedText{Entities: []Entity{{"PERSON", "Newton"}, {"DATE", "1687"}, {"GPE", "England"}}}
	assert.Equal(t, 1.0, EntityOverlap(ref, extra), "extra candidate entities are not penalized")
}

func TestNumberConsistency(t *testing.T) {
	p := DefaultPolicy().Numbers
	cases := []struct {
		name      string
		ref, cand string
		want      float64
	}{
		{"no reference numbers", "water boils when heated", "it boils at 100 degrees", 1},
		{"candidate has none", "water boils at 100 degrees", "water boils when hot", 0},
		{"outside tolerance", "profits increased by 15%", "profits increased by 20%", 0},
		{"within tolerance", "about 100 units", "about 100.5 units", 1},
		{"partial", "between 10 and 20", "between 10 and 30", 0.5},
		{"small values use absolute floor", "0.5 liters", "0.505 liters", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, NumberConsistency(tc.ref, tc.cand, p), 1e-9)
		})
	}
}

func negDoc(head string, negated bool) ParsedText {
	toks := []Token{tok(0, head, head, "VERB")}
	if negated {
		toks = append(toks, Token{Text: "not", Lemma: "not", POS: "PART", IsAlpha: true, IsStop: true, Negation: true, Head: 0})
	}
	return ParsedText{Tokens: toks}
}

func TestNegationMismatch(t *testing.T) {
	p := DefaultPolicy().Negation

	assert.Equal(t, 0.0, NegationMismatch(negDoc("boil", false), negDoc("boil", false), p))
	assert.Equal(t, 0.0, NegationMismatch(negDoc("boil", true), negDoc("boil", true), p))
	assert.InDelta(t, 0.12, NegationMismatch(negDoc("boil", true), negDoc("boil", false), p), 1e-9)
	assert.InDelta(t, 0.24, NegationMismatch(negDoc("boil", true), negDoc("freeze", true), p), 1e-9)

	many := ParsedText{}
	for i, h := range []string{"a", "b", "c", "d"} {
		many.Tokens = append(many.Tokens, tok(2*i, h, h, "VERB"),
			Token{Text: "not", Lemma: "not", IsStop: true, IsAlpha: true, Negation: true, Head: 2 * i})
	}
	assert.Equal(t, 0.30, NegationMismatch(many, ParsedText{}, p), "penalty is capped")
}

func TestLengthScore(t *testing.T) {
	p := DefaultPolicy().ShortAnswer

	score, mult := LengthScore("one two three four", "uno dos tres cuatro", p)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, 1.0, mult)

	score, _ = LengthScore("one two three four", "one two three four five six seven eight", p)
	assert.InDelta(t, math.Exp(-1), score, 1e-12)

	// 20 reference tokens: min expected = round(9) = 9; 3 tokens -> 3/9*0.5.
	ref := "a b c d e f g h i j k l m n o p q r s t"
	_, mult = LengthScore(ref, "x y z", p)
	assert.InDelta(t, 3.0/9.0*0.5, mult, 1e-12)

	// Short references still expect at least three tokens.
	_, mult = LengthScore("short", "one two", p)
	assert.InDelta(t, 2.0/3.0*0.5, mult, 1e-12)
}

func TestHeuristicGrammar(t *testing.T) {
	assert.Equal(t, 0.0, HeuristicGrammar(""))
	assert.Equal(t, 1.0, HeuristicGrammar("cells divide by mitosis"))
	// "a" is a single letter, "42" and "mitosis." are non-alphabetic.
	assert.InDelta(t, 1-(0.6*2+0.4*1)/4, HeuristicGrammar("a cell 42 mitosis."), 1e-12)
	assert.InDelta(t, 0.4, HeuristicGrammar("1 2 3"), 1e-12)
}

func TestGrammarScore(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 0.0, GrammarScore(ctx, fakeGrammar{}, ""))
	assert.Equal(t, 0.75, GrammarScore(ctx, fakeGrammar{issues: 1}, "one two three four"))
	assert.Equal(t, 0.0, GrammarScore(ctx, fakeGrammar{issues: 10}, "one two"))
	assert.Equal(t, HeuristicGrammar("a cell 42"), GrammarScore(ctx, fakeGrammar{err: errBoom}, "a cell 42"))
	assert.Equal(t, 1.0, GrammarScore(ctx, nil, "plain words only"))
}
