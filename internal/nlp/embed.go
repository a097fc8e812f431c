package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/option"
)

const (
	DefaultCohereEmbedModel = "embed-english-v3.0"
	DefaultOpenAIEmbedModel = "text-embedding-3-small"
	DefaultHashDims         = 512
)

// CohereEmbedder embeds texts with the Cohere v2 Embed API.
type CohereEmbedder struct {
	client *cohereclient.Client
	model  string
}

// NewCohereEmbedder builds an embedder; baseURL is only set in tests.
func NewCohereEmbedder(apiKey, model, baseURL string, httpClient *http.Client) *CohereEmbedder {
	if model == "" || !strings.HasPrefix(model, "embed-") {
		model = DefaultCohereEmbedModel
	}
	return &CohereEmbedder{client: newCohereClient(apiKey, baseURL, httpClient), model: model}
}

func newCohereClient(apiKey, baseURL string, httpClient *http.Client) *cohereclient.Client {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	opts := []option.RequestOption{
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, cohereclient.WithBaseURL(baseURL))
	}
	return cohereclient.NewClient(opts...)
}

func (c *CohereEmbedder) ModelName() string { return c.model }

func (c *CohereEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	resp, err := c.client.V2.Embed(ctx, &cohere.V2EmbedRequest{
		Texts:          texts,
		Model:          c.model,
		InputType:      cohere.EmbedInputTypeSearchDocument,
		EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
	})
	if err != nil {
		return nil, fmt.Errorf("cohere embed: %w", err)
	}
	if resp == nil || resp.Embeddings == nil || resp.Embeddings.Float == nil {
		return nil, errors.New("cohere embed returned no float embeddings")
	}
	if len(resp.Embeddings.Float) != len(texts) {
		return nil, errors.New("cohere embed: embedding count mismatch")
	}
	out := make([][]float32, len(texts))
	for i, vec := range resp.Embeddings.Float {
		out[i] = toFloat32(vec)
	}
	return out, nil
}

// OpenAIEmbedder calls an OpenAI-compatible /v1/embeddings endpoint.
type OpenAIEmbedder struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewOpenAIEmbedder(apiKey, model, endpoint string, client *http.Client) *OpenAIEmbedder {
	if model == "" {
		model = DefaultOpenAIEmbedModel
	}
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/embeddings"
	}
	if client == nil {
		client = defaultHTTPClient()
	}
	return &OpenAIEmbedder{apiKey: apiKey, model: model, endpoint: endpoint, client: client}
}

func (o *OpenAIEmbedder) ModelName() string { return o.model }

func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	req, err := newJSONRequest(ctx, o.endpoint, map[string]any{"input": texts, "model": o.model})
	if err != nil {
		return nil, err
	}
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := do(o.client, req, &parsed); err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, errors.New("openai embed: embedding count mismatch")
	}
	out := make([][]float32, len(texts))
	for i, d := range parsed.Data {
		idx := d.Index
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = i
		}
		out[idx] = toFloat32(d.Embedding)
	}
	return out, nil
}

// HashEmbedder is a deterministic offline embedder: stemmed content words
// and character trigrams are feature-hashed into a signed, L2-normalised
// vector. Texts sharing vocabulary get high cosine similarity.
type HashEmbedder struct {
	dims int
}

func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDims
	}
	return &HashEmbedder{dims: dims}
}

func (h *HashEmbedder) ModelName() string { return fmt.Sprintf("hash-%d", h.dims) }

func (h *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	vec := make([]float64, h.dims)
	add := func(feature string, w float64) {
		sum := xxhash.Sum64String(feature)
		if sum>>63 == 1 {
			w = -w
		}
		vec[sum%uint64(h.dims)] += w
	}

	var words []string
	for _, w := range splitWords(text) {
		if isAlpha(w) || isNumber(w) {
			words = append(words, strings.ToLower(w))
		}
	}
	content := words[:0:0]
	for _, w := range words {
		if !isStopWord(w) {
			content = append(content, w)
		}
	}
	if len(content) == 0 {
		content = words
	}
	for _, w := range content {
		add("w:"+stem(w), 1)
		padded := "#" + w + "#"
		for i := 0; i+3 <= len(padded); i++ {
			add("c:"+padded[i:i+3], 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	res := make([]float32, h.dims)
	if norm == 0 {
		return res
	}
	for i, v := range vec {
		res[i] = float32(v / norm)
	}
	return res
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
