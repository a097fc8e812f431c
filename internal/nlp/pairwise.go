package nlp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

const DefaultRerankModel = "rerank-english-v3.0"

// CohereReranker scores a pair with the Cohere v2 Rerank API, using the
// reference as query and the candidate as the only document.
type CohereReranker struct {
	client *cohereclient.Client
	model  string
}

func NewCohereReranker(apiKey, model, baseURL string, httpClient *http.Client) *CohereReranker {
	if model == "" {
		model = DefaultRerankModel
	}
	return &CohereReranker{client: newCohereClient(apiKey, baseURL, httpClient), model: model}
}

// Score returns the relevance mapped from [0,1] onto [-1,1], so that
// scoring.NormalizeSimilarity recovers the relevance itself.
func (r *CohereReranker) Score(ctx context.Context, a, b string) (float64, error) {
	resp, err := r.client.V2.Rerank(ctx, &cohere.V2RerankRequest{
		Model:     r.model,
		Query:     a,
		Documents: []string{b},
	})
	if err != nil {
		return 0, fmt.Errorf("cohere rerank: %w", err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return 0, errors.New("cohere rerank returned no results")
	}
	return 2*resp.Results[0].RelevanceScore - 1, nil
}

// HTTPCrossEncoder calls a cross-encoder sidecar exposing POST /predict.
type HTTPCrossEncoder struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCrossEncoder(baseURL string, client *http.Client) *HTTPCrossEncoder {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &HTTPCrossEncoder{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (c *HTTPCrossEncoder) Score(ctx context.Context, a, b string) (float64, error) {
	var resp struct {
		Scores []float64 `json:"scores"`
	}
	body := map[string]any{"pairs": [][2]string{{a, b}}}
	if err := postJSON(ctx, c.client, c.baseURL+"/predict", body, &resp); err != nil {
		return 0, fmt.Errorf("cross-encoder: %w", err)
	}
	if len(resp.Scores) == 0 {
		return 0, errors.New("cross-encoder returned no scores")
	}
	return resp.Scores[0], nil
}
