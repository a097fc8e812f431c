package nlp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/check", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "en-US", r.PostForm.Get("language"))
		assert.Equal(t, "He go to school", r.PostForm.Get("text"))
		w.Write([]byte(`{"matches":[{"message":"agreement"},{"message":"style"}]}`))
	}))
	defer srv.Close()

	n, err := NewLanguageTool(srv.URL, nil).CountIssues(context.Background(), "He go to school")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLanguageToolDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewLanguageTool(srv.URL, nil).CountIssues(context.Background(), "text")
	assert.ErrorContains(t, err, "503")
}
