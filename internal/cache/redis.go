package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisTTL = 24 * time.Hour

// RedisConfig configures the shared embedding cache.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	TTL      time.Duration
	// Namespace separates vectors of different embedding models.
	Namespace string
}

// Redis shares reference embeddings between scorer replicas. Redis errors
// are logged and treated as cache misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	ns     string
}

// NewRedis connects to Redis and verifies connectivity.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return newRedisWithClient(client, cfg), nil
}

func newRedisWithClient(client *redis.Client, cfg RedisConfig) *Redis {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "default"
	}
	return &Redis{client: client, ttl: ttl, ns: ns}
}

// Key returns the redis key for a normalized reference text. Keys are
// digests; the stored entry carries the full text, which Get compares.
func (r *Redis) Key(text string) string {
	return "scorer:emb:" + r.ns + ":" + strconv.FormatUint(xxhash.Sum64String(text), 16)
}

func (r *Redis) Get(ctx context.Context, key string) ([]float32, bool) {
	b, err := r.client.Get(ctx, r.Key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: redis get: %v", err)
		}
		return nil, false
	}
	return decodeEntry(b, key)
}

func (r *Redis) Put(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	if err := r.client.Set(ctx, r.Key(key), encodeEntry(key, vec), r.ttl).Err(); err != nil {
		log.Printf("cache: redis set: %v", err)
	}
}

func (r *Redis) Close() error { return r.client.Close() }

// encodeEntry packs the reference text length (uint32), the text and the
// vector as little-endian float32s.
func encodeEntry(text string, vec []float32) []byte {
	b := make([]byte, 4+len(text)+4*len(vec))
	binary.LittleEndian.PutUint32(b, uint32(len(text)))
	copy(b[4:], text)
	v := b[4+len(text):]
	for i, f := range vec {
		binary.LittleEndian.PutUint32(v[4*i:], math.Float32bits(f))
	}
	return b
}

// decodeEntry unpacks an entry written for text. A digest collision with
// another reference, a malformed payload or an empty vector is a miss.
func decodeEntry(b []byte, text string) ([]float32, bool) {
	if len(b) < 4 {
		return nil, false
	}
	n := int(binary.LittleEndian.Uint32(b))
	if n > len(b)-4 || string(b[4:4+n]) != text {
		return nil, false
	}
	v := b[4+n:]
	if len(v) == 0 || len(v)%4 != 0 {
		return nil, false
	}
	vec := make([]float32, len(v)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(v[4*i:]))
	}
	return vec, true
}
