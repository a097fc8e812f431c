package scoring

import (
	"context"
	"errors"
	"sync"
)

type fakeParser struct {
	docs map[string]ParsedText
}

func (f fakeParser) Parse(_ context.Context, text string) (ParsedText, error) {
	if d, ok := f.docs[text]; ok {
		return d, nil
	}
	return ParsedText{}, nil
}

// fakeEmbedder returns vecs[text], or def for unknown texts.
type fakeEmbedder struct {
	mu    sync.Mutex
	vecs  map[string][]float32
	def   []float32
	calls [][]string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vecs[t]; ok {
			out[i] = v
			continue
		}
		out[i] = f.def
	}
	return out, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake" }

type fakePairwise struct {
	score float64
	err   error
	calls int
}

func (f *fakePairwise) Score(context.Context, string, string) (float64, error) {
	f.calls++
	return f.score, f.err
}

type fakeGrammar struct {
	issues int
	err    error
}

func (f fakeGrammar) CountIssues(context.Context, string) (int, error) { return f.issues, f.err }

type mapCache struct {
	mu sync.Mutex
	m  map[string][]float32
}

func (c *mapCache) Get(_ context.Context, k string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[k]
	return v, ok
}

func (c *mapCache) Put(_ context.Context, k string, v []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = v
}

var errBoom = errors.New("boom")

// tok builds an alphabetic content token that heads itself.
func tok(i int, text, lemma, pos string) Token {
	return Token{Text: text, Lemma: lemma, POS: pos, IsAlpha: true, Head: i}
}

func stop(i int, text string) Token {
	return Token{Text: text, Lemma: text, POS: "DET", IsAlpha: true, IsStop: true, Head: i}
}
