// Package nlp provides the concrete parsers, embedders, pairwise scorers and
// grammar checkers behind the scoring capability interfaces, and resolves
// which of them are active from configuration.
package nlp

import (
	"fmt"
	"log"

	"github.com/mind-engage/mindengage-scorer/internal/cache"
	"github.com/mind-engage/mindengage-scorer/internal/config"
	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// Build resolves the capabilities selected by cfg once, at startup. The
// returned cleanup releases connections held by the cache.
func Build(cfg config.Config) (scoring.Capabilities, func(), error) {
	var caps scoring.Capabilities
	cleanup := func() {}

	switch cfg.Parser {
	case "", "rules":
		caps.Parser = NewRuleParser()
	case "http":
		caps.Parser = NewHTTPParser(cfg.ParserURL, nil)
	default:
		return caps, cleanup, fmt.Errorf("unknown parser %q", cfg.Parser)
	}

	switch cfg.Embedder {
	case "", "hash":
		caps.Embedder = NewHashEmbedder(0)
	case "cohere":
		if cfg.CohereAPIKey == "" {
			return caps, cleanup, fmt.Errorf("embedder cohere requires COHERE_API_KEY")
		}
		caps.Embedder = NewCohereEmbedder(cfg.CohereAPIKey, cfg.EmbedModel, "", nil)
	case "openai":
		caps.Embedder = NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.EmbedURL, nil)
	default:
		return caps, cleanup, fmt.Errorf("unknown embedder %q", cfg.Embedder)
	}

	switch cfg.Pairwise {
	case "", "none":
	case "cohere":
		if cfg.CohereAPIKey == "" {
			log.Printf("pairwise cohere selected without COHERE_API_KEY; semantic uses cosine only")
			break
		}
		caps.Pairwise = NewCohereReranker(cfg.CohereAPIKey, cfg.RerankModel, "", nil)
	case "http":
		caps.Pairwise = NewHTTPCrossEncoder(cfg.PairwiseURL, nil)
	default:
		return caps, cleanup, fmt.Errorf("unknown pairwise scorer %q", cfg.Pairwise)
	}

	switch cfg.Grammar {
	case "", "heuristic":
	case "languagetool":
		caps.Grammar = NewLanguageTool(cfg.LanguageToolURL, nil)
	default:
		return caps, cleanup, fmt.Errorf("unknown grammar checker %q", cfg.Grammar)
	}

	caps = Limit(caps, cfg.NLPRPS, cfg.NLPBurst)

	switch cfg.CacheDriver {
	case "none":
	case "redis":
		r, err := cache.NewRedis(cache.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPass,
			DB:        cfg.RedisDB,
			TTL:       cfg.CacheTTL,
			Namespace: caps.Embedder.ModelName(),
		})
		if err != nil {
			log.Printf("redis cache unavailable, using in-memory cache: %v", err)
			caps.Cache = cache.NewLRU(cfg.CacheSize, cfg.CacheTTL)
			break
		}
		caps.Cache = r
		cleanup = func() { _ = r.Close() }
	case "", "memory":
		caps.Cache = cache.NewLRU(cfg.CacheSize, cfg.CacheTTL)
	default:
		return caps, cleanup, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}

	log.Printf("nlp: parser=%s embedder=%s pairwise=%s grammar=%s cache=%s",
		orDefault(cfg.Parser, "rules"), caps.Embedder.ModelName(), orDefault(cfg.Pairwise, "none"),
		orDefault(cfg.Grammar, "heuristic"), orDefault(cfg.CacheDriver, "memory"))
	return caps, cleanup, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
