// Package scoring turns linguistic signals about a reference answer and a
// candidate answer into one bounded 0-10 correctness score.
package scoring

import "context"

// Token is one parsed token of a normalized text.
type Token struct {
	Text     string
	Lemma    string
	POS      string // universal tag: NOUN, PROPN, VERB, ADJ, ...
	IsAlpha  bool
	IsStop   bool
	Negation bool // token negates its syntactic head
	Head     int  // index of the syntactic head in ParsedText.Tokens; self for roots
}

// Entity is a named-entity span.
type Entity struct {
	Label string
	Text  string
}

// NounChunk is a half-open token range [Start, End) over ParsedText.Tokens.
type NounChunk struct {
	Start int
	End   int
}

// ParsedText is the request-scoped linguistic analysis of one text.
// It is produced by a Parser and never mutated afterwards.
type ParsedText struct {
	Tokens     []Token
	Entities   []Entity
	NounChunks []NounChunk
}

// headLemma returns the lowercased lemma of token i's head, falling back to
// the token itself when the head index is out of range.
func (p ParsedText) headLemma(i int) string {
	h := p.Tokens[i].Head
	if h < 0 || h >= len(p.Tokens) {
		h = i
	}
	return lower(p.Tokens[h].Lemma)
}

// Keyphrase is a weighted, topic-bearing phrase.
type Keyphrase struct {
	Text   string
	Weight float64
}

// SignalVector holds the raw readings fused by a Composer. Credit signals are
// in [0,1]; NegationPenalty is in [0, Policy.Negation.MaxPenalty].
type SignalVector struct {
	Semantic          float64 `json:"semantic"`
	Grammar           float64 `json:"grammar"`
	KeywordCoverage   float64 `json:"keywordCoverage"`
	KeywordEffective  float64 `json:"keywordEffective"`
	EntityOverlap     float64 `json:"entityOverlap"`
	NumberConsistency float64 `json:"numberConsistency"`
	LengthScore       float64 `json:"lengthScore"`
	ShortMultiplier   float64 `json:"shortMultiplier"`
	NegationPenalty   float64 `json:"negationPenalty"`
}

// Result is the outcome of one evaluation.
type Result struct {
	FinalScore float64
	Signals    SignalVector
	Note       string
	// Scored is false for the empty-candidate and exact-match short circuits,
	// where no signal was computed.
	Scored       bool
	Policy       string
	UsedPairwise bool
	// Weights are the blend weights of the policy snapshot that produced
	// FinalScore.
	Weights Weights
}

// Parser runs linguistic analysis over a normalized text.
type Parser interface {
	Parse(ctx context.Context, text string) (ParsedText, error)
}

// Embedder maps texts to fixed-length vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

// PairwiseScorer jointly scores the relatedness of a text pair. The value's
// range is model-specific and is normalized by NormalizeSimilarity.
type PairwiseScorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
}

// GrammarChecker reports the number of grammar issues found in a text.
type GrammarChecker interface {
	CountIssues(ctx context.Context, text string) (int, error)
}

// EmbeddingCache stores reference embeddings keyed by the normalized
// reference string. Implementations must be safe for concurrent use.
type EmbeddingCache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Put(ctx context.Context, key string, vec []float32)
}

// Capabilities is the set of external collaborators resolved once at startup.
// Parser and Embedder are required; a nil Pairwise or Grammar selects the
// documented fallback, a nil Cache disables reference caching.
type Capabilities struct {
	Parser   Parser
	Embedder Embedder
	Pairwise PairwiseScorer
	Grammar  GrammarChecker
	Cache    EmbeddingCache
}
