package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/mind-engage/mindengage-scorer/internal/evaluation"
	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// Evaluator is the scoring surface the handlers need.
type Evaluator interface {
	Evaluate(ctx context.Context, req scoring.Request) (scoring.Result, error)
}

type evaluateRequest struct {
	OriginalAnswer string `json:"originalAnswer"`
	UserAnswer     string `json:"userAnswer"`
	Policy         string `json:"policy,omitempty"`
}

type evaluateResponse struct {
	Success    bool           `json:"success"`
	FinalScore float64        `json:"finalScore"`
	Details    map[string]any `json:"details"`
}

// EvaluateHandler serves POST /evaluate. store may be nil; persistence
// failures are logged and never fail the response.
func EvaluateHandler(ev Evaluator, store evaluation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req evaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		res, err := ev.Evaluate(r.Context(), scoring.Request{
			Reference: req.OriginalAnswer,
			Candidate: req.UserAnswer,
			Composer:  req.Policy,
		})
		if err != nil {
			status, msg := evaluationErrorStatus(err)
			if status >= 500 {
				log.Printf("evaluate: %v", err)
			}
			respondError(w, status, msg)
			return
		}
		if store != nil {
			rec := evaluation.NewRecord(scoring.NormalizeText(req.OriginalAnswer), scoring.NormalizeText(req.UserAnswer), res)
			if err := store.Save(r.Context(), &rec); err != nil {
				log.Printf("evaluate: history not saved: %v", err)
			}
		}
		respondJSON(w, http.StatusOK, evaluateResponse{
			Success:    true,
			FinalScore: res.FinalScore,
			Details:    Details(res),
		})
	}
}

// evaluationErrorStatus maps evaluator errors onto HTTP statuses: caller
// mistakes are 400, capability failures 502.
func evaluationErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrReferenceRequired):
		return http.StatusBadRequest, scoring.ErrReferenceRequired.Error()
	case errors.Is(err, scoring.ErrUnknownComposer):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusBadGateway, "scoring backend unavailable: " + err.Error()
	}
}

// Details renders the signal readings of res, percentage-scaled to 2dp,
// with the weights the score was composed with. Short circuits carry only
// their note.
func Details(res scoring.Result) map[string]any {
	d := map[string]any{}
	if !res.Scored {
		if res.Note != "" {
			d["note"] = res.Note
		}
		return d
	}
	s := res.Signals
	d["semantic"] = pct(s.Semantic)
	d["grammar"] = pct(s.Grammar)
	d["keywordCoverage"] = pct(s.KeywordCoverage)
	d["keywordEffective"] = pct(s.KeywordEffective)
	d["entities"] = pct(s.EntityOverlap)
	d["numbers"] = pct(s.NumberConsistency)
	d["length"] = pct(s.LengthScore)
	d["lengthRaw"] = pct(s.LengthScore)
	d["shortMultiplier"] = pct(s.ShortMultiplier)
	d["negationPenalty"] = pct(s.NegationPenalty)
	d["usedCrossEncoder"] = res.UsedPairwise
	d["policy"] = res.Policy
	d["weights"] = res.Weights
	if res.Note != "" {
		d["note"] = res.Note
	}
	return d
}

func pct(v float64) float64 {
	return math.Round(v*100*100) / 100
}
