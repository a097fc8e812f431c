package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-scorer/internal/evaluation"
	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// ListEvaluationsHandler serves GET /evaluations?limit=&offset=, newest first.
func ListEvaluationsHandler(store evaluation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := parseIntDefault(q.Get("limit"), evaluation.DefaultListLimit)
		offset := parseIntDefault(q.Get("offset"), 0)
		list, err := store.List(r.Context(), limit, offset)
		if err != nil {
			log.Printf("list evaluations: %v", err)
			http.Error(w, "list failed", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": list, "limit": limit, "offset": offset})
	}
}

// GetEvaluationHandler serves GET /evaluations/{id}.
func GetEvaluationHandler(store evaluation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, evaluation.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("get evaluation: %v", err)
			http.Error(w, "lookup failed", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, rec)
	}
}

// ListEventsHandler serves GET /events?after=&limit=, oldest first, so a
// consumer can follow the event log by passing the last seq it saw.
func ListEventsHandler(repo *evaluation.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		after, err := strconv.ParseInt(q.Get("after"), 10, 64)
		if err != nil || after < 0 {
			after = 0
		}
		limit := parseIntDefault(q.Get("limit"), evaluation.DefaultListLimit)
		evs, err := repo.Since(r.Context(), after, limit)
		if err != nil {
			log.Printf("list events: %v", err)
			http.Error(w, "list failed", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": evs, "after": after})
	}
}

// PolicyHandler serves GET /policy with the active scoring policy.
func PolicyHandler(src scoring.PolicySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		respondJSON(w, http.StatusOK, src.Current())
	}
}
