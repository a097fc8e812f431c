package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

func TestHTTPCrossEncoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		var req struct {
			Pairs [][]string `json:"pairs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, [][]string{{"ref", "cand"}}, req.Pairs)
		w.Write([]byte(`{"scores":[4.2]}`))
	}))
	defer srv.Close()

	got, err := NewHTTPCrossEncoder(srv.URL+"/", nil).Score(context.Background(), "ref", "cand")
	require.NoError(t, err)
	assert.Equal(t, 4.2, got)
}

func TestHTTPCrossEncoderEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scores":[]}`))
	}))
	defer srv.Close()
	_, err := NewHTTPCrossEncoder(srv.URL, nil).Score(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestCohereReranker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "reference", req["query"])
		assert.Equal(t, []any{"candidate"}, req["documents"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"r1","results":[{"index":0,"relevance_score":0.8}],"meta":{}}`))
	}))
	defer srv.Close()

	rr := NewCohereReranker("key", "", srv.URL, srv.Client())
	got, err := rr.Score(context.Background(), "reference", "candidate")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, got, 1e-12)
	assert.InDelta(t, 0.8, scoring.NormalizeSimilarity(got), 1e-12)
}
