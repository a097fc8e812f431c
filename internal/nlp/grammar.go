package nlp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// LanguageTool counts grammar issues with a LanguageTool server.
type LanguageTool struct {
	baseURL  string
	language string
	client   *http.Client
}

func NewLanguageTool(baseURL string, client *http.Client) *LanguageTool {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &LanguageTool{baseURL: strings.TrimSuffix(baseURL, "/"), language: "en-US", client: client}
}

func (lt *LanguageTool) CountIssues(ctx context.Context, text string) (int, error) {
	form := url.Values{"language": {lt.language}, "text": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var resp struct {
		Matches []struct {
			Message string `json:"message"`
		} `json:"matches"`
	}
	if err := do(lt.client, req, &resp); err != nil {
		return 0, fmt.Errorf("languagetool: %w", err)
	}
	return len(resp.Matches), nil
}
