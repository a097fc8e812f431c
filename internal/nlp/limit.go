package nlp

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// LimitedEmbedder waits on a shared token bucket before each remote call.
type LimitedEmbedder struct {
	scoring.Embedder
	limiter *rate.Limiter
}

func (l LimitedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.Embedder.Embed(ctx, texts)
}

// LimitedPairwise waits on a shared token bucket before each remote call.
type LimitedPairwise struct {
	scoring.PairwiseScorer
	limiter *rate.Limiter
}

func (l LimitedPairwise) Score(ctx context.Context, a, b string) (float64, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return l.PairwiseScorer.Score(ctx, a, b)
}

// Limit wraps the paid capabilities of caps with one limiter of rps
// requests per second. rps <= 0 returns caps unchanged.
func Limit(caps scoring.Capabilities, rps float64, burst int) scoring.Capabilities {
	if rps <= 0 {
		return caps
	}
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	if caps.Embedder != nil {
		caps.Embedder = LimitedEmbedder{Embedder: caps.Embedder, limiter: lim}
	}
	if caps.Pairwise != nil {
		caps.Pairwise = LimitedPairwise{PairwiseScorer: caps.Pairwise, limiter: lim}
	}
	return caps
}
