package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mind-engage/mindengage-scorer/internal/grading"
)

type gradeRequest struct {
	Question struct {
		ID        string          `json:"id"`
		Type      string          `json:"type"`
		Points    float64         `json:"points"`
		AnswerKey []string        `json:"answer_key"`
		Rubric    *grading.Rubric `json:"rubric,omitempty"`
	} `json:"question"`
	Response any    `json:"response"`
	Policy   string `json:"policy,omitempty"`
}

type gradeEvaluation struct {
	FinalScore float64        `json:"finalScore"`
	Details    map[string]any `json:"details"`
}

type gradeResponse struct {
	QuestionID  string           `json:"question_id,omitempty"`
	AutoPoints  float64          `json:"auto_points"`
	MaxPoints   float64          `json:"max_points"`
	NeedsManual bool             `json:"needs_manual"`
	Feedback    []string         `json:"feedback"`
	Evaluation  *gradeEvaluation `json:"evaluation,omitempty"`
}

// GradeHandler serves POST /grade for a single question response.
func GradeHandler(g grading.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Question.Type == "" {
			respondError(w, http.StatusBadRequest, "question.type is required")
			return
		}
		q := grading.Q{
			ID:        req.Question.ID,
			Type:      req.Question.Type,
			Points:    req.Question.Points,
			AnswerKey: req.Question.AnswerKey,
			Rubric:    req.Question.Rubric,
			Composer:  req.Policy,
		}
		res, err := g.Grade(r.Context(), q, req.Response)
		if err != nil {
			if errors.Is(err, grading.ErrBadResponse) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			status, msg := evaluationErrorStatus(err)
			if status >= 500 {
				log.Printf("grade %s: %v", q.ID, err)
			}
			respondError(w, status, msg)
			return
		}

		out := gradeResponse{
			QuestionID:  q.ID,
			AutoPoints:  res.AutoPoints,
			MaxPoints:   res.MaxPoints,
			NeedsManual: res.NeedsManual,
			Feedback:    res.Feedback,
		}
		if out.Feedback == nil {
			out.Feedback = []string{}
		}
		if res.Evaluation != nil {
			out.Evaluation = &gradeEvaluation{
				FinalScore: res.Evaluation.FinalScore,
				Details:    Details(*res.Evaluation),
			}
		}
		respondJSON(w, http.StatusOK, out)
	}
}
