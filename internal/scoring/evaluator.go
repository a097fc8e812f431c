package scoring

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

var (
	ErrReferenceRequired = errors.New("originalAnswer is required")
	ErrUnknownComposer   = errors.New("unknown composer")
	ErrMissingCapability = errors.New("scoring: parser and embedder are required")
)

const exactMatchNote = "Exact match"

// PolicySource yields the policy in force for the next evaluation.
type PolicySource interface {
	Current() Policy
}

// StaticPolicy is a PolicySource that never changes.
type StaticPolicy Policy

func (p StaticPolicy) Current() Policy { return Policy(p) }

// Request is one grading request. Composer overrides the policy's composer
// when non-empty.
type Request struct {
	Reference string
	Candidate string
	Composer  string
}

// Evaluator grades candidate answers against reference answers. It is safe
// for concurrent use; all per-request state lives on the stack.
type Evaluator struct {
	caps   Capabilities
	policy PolicySource
}

func NewEvaluator(caps Capabilities, policy PolicySource) (*Evaluator, error) {
	if caps.Parser == nil || caps.Embedder == nil {
		return nil, ErrMissingCapability
	}
	if policy == nil {
		policy = StaticPolicy(DefaultPolicy())
	}
	return &Evaluator{caps: caps, policy: policy}, nil
}

// Policy returns the policy currently in force.
func (e *Evaluator) Policy() Policy { return e.policy.Current() }

// Evaluate scores req.Candidate against req.Reference.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Result, error) {
	ref := NormalizeText(req.Reference)
	cand := NormalizeText(req.Candidate)
	if ref == "" {
		return Result{}, ErrReferenceRequired
	}

	p := e.policy.Current()
	name := req.Composer
	if name == "" {
		name = p.Composer
	}
	composer, err := ComposerFor(name)
	if err != nil {
		return Result{}, fmt.Errorf("%w %q", ErrUnknownComposer, name)
	}

	if cand == "" {
		return Result{FinalScore: 0, Policy: composer.Name()}, nil
	}
	if IsExactMatch(ref, cand) {
		return Result{FinalScore: 10, Note: exactMatchNote, Policy: composer.Name()}, nil
	}

	var (
		refDoc, candDoc ParsedText
		refVec, candVec []float32
		grammar         float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		refDoc, err = e.caps.Parser.Parse(gctx, ref)
		if err != nil {
			return fmt.Errorf("parse reference: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		candDoc, err = e.caps.Parser.Parse(gctx, cand)
		if err != nil {
			return fmt.Errorf("parse candidate: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		refVec, candVec, err = e.embedPair(gctx, ref, cand)
		return err
	})
	g.Go(func() error {
		grammar = GrammarScore(gctx, e.caps.Grammar, cand)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	refPhrases := ExtractKeyphrases(refDoc, p.Keyphrase)
	candPhrases := ExtractKeyphrases(candDoc, p.Keyphrase)

	s := SignalVector{
		Grammar:           grammar,
		EntityOverlap:     EntityOverlap(refDoc, candDoc),
		NumberConsistency: NumberConsistency(ref, cand, p.Numbers),
		NegationPenalty:   NegationMismatch(refDoc, candDoc, p.Negation),
	}
	s.LengthScore, s.ShortMultiplier = LengthScore(ref, cand, p.ShortAnswer)

	var usedPairwise bool
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.KeywordCoverage, err = SoftKeywordCoverage(gctx, e.caps.Embedder, refPhrases, phraseTexts(candPhrases), p.Coverage)
		return err
	})
	g.Go(func() error {
		s.Semantic, usedPairwise = FuseSemantic(gctx, e.caps.Pairwise, ref, cand, Cosine(refVec, candVec), p.Semantic)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	c := composer.Compose(s, p)
	return Result{
		FinalScore:   c.Score,
		Signals:      c.Signals,
		Scored:       true,
		Policy:       composer.Name(),
		UsedPairwise: usedPairwise,
		Weights:      c.Weights,
	}, nil
}

// embedPair embeds reference and candidate in one call, serving the
// reference from the cache when possible.
func (e *Evaluator) embedPair(ctx context.Context, ref, cand string) ([]float32, []float32, error) {
	if e.caps.Cache != nil {
		if v, ok := e.caps.Cache.Get(ctx, ref); ok {
			vecs, err := e.caps.Embedder.Embed(ctx, []string{cand})
			if err != nil {
				return nil, nil, fmt.Errorf("embed candidate: %w", err)
			}
			if len(vecs) != 1 {
				return nil, nil, ErrEmbeddingMismatch
			}
			return v, vecs[0], nil
		}
	}
	vecs, err := e.caps.Embedder.Embed(ctx, []string{ref, cand})
	if err != nil {
		return nil, nil, fmt.Errorf("embed answers: %w", err)
	}
	if len(vecs) != 2 {
		return nil, nil, ErrEmbeddingMismatch
	}
	if e.caps.Cache != nil {
		e.caps.Cache.Put(ctx, ref, vecs[0])
	}
	return vecs[0], vecs[1], nil
}
