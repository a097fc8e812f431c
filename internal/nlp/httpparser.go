package nlp

import (
	"context"
	"net/http"
	"strings"

	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// HTTPParser delegates parsing to a spaCy-style sidecar exposing POST /parse.
type HTTPParser struct {
	baseURL string
	client  *http.Client
}

func NewHTTPParser(baseURL string, client *http.Client) *HTTPParser {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &HTTPParser{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

type parseResponse struct {
	Tokens []struct {
		Text    string `json:"text"`
		Lemma   string `json:"lemma"`
		POS     string `json:"pos"`
		IsAlpha bool   `json:"is_alpha"`
		IsStop  bool   `json:"is_stop"`
		Dep     string `json:"dep"`
		Head    int    `json:"head"`
	} `json:"tokens"`
	Ents []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"ents"`
	NounChunks []struct {
		Start int `json:"start"`
		End   int `json:"end"`
	} `json:"noun_chunks"`
}

func (p *HTTPParser) Parse(ctx context.Context, text string) (scoring.ParsedText, error) {
	var resp parseResponse
	if err := postJSON(ctx, p.client, p.baseURL+"/parse", map[string]string{"text": text}, &resp); err != nil {
		return scoring.ParsedText{}, err
	}
	out := scoring.ParsedText{
		Tokens:     make([]scoring.Token, len(resp.Tokens)),
		Entities:   make([]scoring.Entity, 0, len(resp.Ents)),
		NounChunks: make([]scoring.NounChunk, 0, len(resp.NounChunks)),
	}
	for i, t := range resp.Tokens {
		out.Tokens[i] = scoring.Token{
			Text:     t.Text,
			Lemma:    t.Lemma,
			POS:      t.POS,
			IsAlpha:  t.IsAlpha,
			IsStop:   t.IsStop,
			Negation: t.Dep == "neg",
			Head:     t.Head,
		}
	}
	for _, e := range resp.Ents {
		out.Entities = append(out.Entities, scoring.Entity{Label: e.Label, Text: e.Text})
	}
	for _, c := range resp.NounChunks {
		if c.Start < 0 || c.End > len(out.Tokens) || c.Start >= c.End {
			continue
		}
		out.NounChunks = append(out.NounChunks, scoring.NounChunk{Start: c.Start, End: c.End})
	}
	return out, nil
}
