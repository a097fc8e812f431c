package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver      string
	DBDSN         string
	EnableHistory bool

	EnableAuth     bool
	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt

	CORSOrigins []string

	// Scoring policy
	PolicyFile  string
	Composer    string // overrides the policy file's composer when set
	WatchPolicy bool

	// NLP capabilities
	Parser          string // rules|http
	ParserURL       string
	Embedder        string // hash|cohere|openai
	EmbedModel      string
	EmbedURL        string // OpenAI-compatible endpoint
	CohereAPIKey    string
	OpenAIAPIKey    string
	Pairwise        string // none|cohere|http
	PairwiseURL     string
	RerankModel     string
	Grammar         string // heuristic|languagetool
	LanguageToolURL string
	NLPRPS          float64 // 0 disables client-side rate limiting
	NLPBurst        int

	// Reference embedding cache
	CacheDriver string // memory|redis|none
	CacheSize   int
	CacheTTL    time.Duration
	RedisAddr   string
	RedisPass   string
	RedisDB     int
}

// FromEnv reads the configuration from the environment after loading an
// optional .env file from the working directory.
func FromEnv() Config {
	_ = godotenv.Load()

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defCORS := "http://localhost:3000,http://localhost:3010,http://localhost:3020"
	if mode == ModeOnline {
		defCORS = "https://lms.mindengage.ai"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", ""),
		EnableHistory: envBool("ENABLE_HISTORY", true),

		EnableAuth:     envBool("ENABLE_AUTH", mode == ModeOnline),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOrigins: csvOr("CORS_ORIGINS", defCORS),

		PolicyFile:  os.Getenv("SCORING_POLICY_FILE"),
		Composer:    os.Getenv("SCORING_COMPOSER"),
		WatchPolicy: envBool("WATCH_POLICY", false),

		Parser:          envOr("PARSER", "rules"),
		ParserURL:       envOr("PARSER_URL", "http://localhost:8001"),
		Embedder:        envOr("EMBEDDER", defaultEmbedder()),
		EmbedModel:      os.Getenv("EMBED_MODEL"),
		EmbedURL:        envOr("EMBED_URL", "https://api.openai.com/v1/embeddings"),
		CohereAPIKey:    os.Getenv("COHERE_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		Pairwise:        envOr("PAIRWISE", "none"),
		PairwiseURL:     envOr("PAIRWISE_URL", "http://localhost:8002"),
		RerankModel:     envOr("RERANK_MODEL", "rerank-english-v3.0"),
		Grammar:         envOr("GRAMMAR", "heuristic"),
		LanguageToolURL: envOr("LANGUAGETOOL_URL", "http://localhost:8010"),
		NLPRPS:          envFloat("NLP_RPS", 0),
		NLPBurst:        envInt("NLP_BURST", 5),

		CacheDriver: envOr("CACHE_DRIVER", "memory"),
		CacheSize:   envInt("CACHE_SIZE", 4096),
		CacheTTL:    envDuration("CACHE_TTL", 24*time.Hour),
		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     envInt("REDIS_DB", 0),
	}
}

// defaultEmbedder prefers a hosted model when a key is present.
func defaultEmbedder() string {
	switch {
	case os.Getenv("COHERE_API_KEY") != "":
		return "cohere"
	case os.Getenv("OPENAI_API_KEY") != "":
		return "openai"
	default:
		return "hash"
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}
func envFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
