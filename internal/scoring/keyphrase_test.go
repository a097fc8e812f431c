package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func powerhouseDoc() ParsedText {
	// "The mitochondria is the powerhouse of the cell"
	return ParsedText{
		Tokens: []Token{
			stop(0, "The"),
			tok(1, "mitochondria", "mitochondria", "NOUN"),
			{Text: "is", Lemma: "be", POS: "AUX", IsAlpha: true, IsStop: true, Head: 2},
			stop(3, "the"),
			tok(4, "powerhouse", "powerhouse", "NOUN"),
			{Text: "of", Lemma: "of", POS: "ADP", IsAlpha: true, IsStop: true, Head: 4},
			stop(6, "the"),
			tok(7, "cell", "cell", "NOUN"),
		},
		NounChunks: []NounChunk{{0, 2}, {3, 5}, {6, 8}},
	}
}

func TestExtractKeyphrases(t *testing.T) {
	got := ExtractKeyphrases(powerhouseDoc(), DefaultPolicy().Keyphrase)
	assert.Equal(t, []Keyphrase{
		{Text: "mitochondria", Weight: 1},
		{Text: "powerhouse", Weight: 1},
		{Text: "cell", Weight: 1},
	}, got)
}

func TestExtractKeyphrasesWeights(t *testing.T) {
	doc := ParsedText{
		Tokens: []Token{
			tok(0, "Marie", "Marie", "PROPN"),
			tok(1, "Curie", "Curie", "PROPN"),
			tok(2, "discovered", "discover", "VERB"),
			tok(3, "radioactive", "radioactive", "ADJ"),
			tok(4, "polonium", "polonium", "NOUN"),
			{Text: "x", Lemma: "x", POS: "NOUN", IsAlpha: true, Head: 5},
		},
		Entities:   []Entity{{Label: "PERSON", Text: "Marie Curie"}},
		NounChunks: []NounChunk{{0, 2}, {3, 5}},
	}
	got := ExtractKeyphrases(doc, KeyphrasePolicy{MultiWordBonus: 1, EntityBonus: 1})

	weights := map[string]float64{}
	for _, k := range got {
		weights[k.Text] = k.Weight
	}
	assert.Equal(t, 3.0, weights["marie curie"], "multi-word entity")
	assert.Equal(t, 2.0, weights["radioactive polonium"], "multi-word chunk")
	assert.Equal(t, 1.0, weights["discover"])
	assert.Equal(t, 1.0, weights["marie"])
	assert.NotContains(t, weights, "x", "single-character phrases are dropped")
	assert.Len(t, got, 7)

	noBonus := ExtractKeyphrases(doc, KeyphrasePolicy{MultiWordBonus: 1})
	assert.Equal(t, 2.0, noBonus[0].Weight)
}

func TestExtractKeyphrasesSkipsEmptyChunks(t *testing.T) {
	doc := ParsedText{
		Tokens:     []Token{stop(0, "it"), stop(1, "this")},
		NounChunks: []NounChunk{{0, 1}, {1, 5}},
	}
	assert.Empty(t, ExtractKeyphrases(doc, DefaultPolicy().Keyphrase))
}

func TestExtractKeyphrasesOutOfRangeChunks(t *testing.T) {
	doc := ParsedText{
		Tokens:     []Token{tok(0, "Osmosis", "osmosis", "NOUN")},
		NounChunks: []NounChunk{{3, 4}, {1, 0}, {-2, 1}},
	}
	var got []Keyphrase
	assert.NotPanics(t, func() { got = ExtractKeyphrases(doc, DefaultPolicy().Keyphrase) })
	assert.Equal(t, []Keyphrase{{Text: "osmosis", Weight: 1}}, got)
}
