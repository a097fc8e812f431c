package grading

import (
	"context"
	"fmt"
)

type Rubric struct {
	Criteria []Criterion `json:"criteria"`
	Max      float64     `json:"max_points"`
}

// Criterion is one rubric line. Reference is the model answer for that
// criterion; without one the criterion is left for the grader.
type Criterion struct {
	Key       string  `json:"key"`
	Desc      string  `json:"desc"`
	Reference string  `json:"reference,omitempty"`
	MaxPoints float64 `json:"max_points"`
}

func ScoreRubric(r Rubric, awarded map[string]float64) (float64, []string) {
	total := 0.0
	notes := make([]string, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		v := awarded[c.Key]
		if v < 0 {
			v = 0
		}
		if v > c.MaxPoints {
			v = c.MaxPoints
		}
		total += v
		notes = append(notes, fmt.Sprintf("%s:%.2f", c.Key, v))
	}
	if r.Max > 0 && total > r.Max {
		total = r.Max
	}
	return total, notes
}

// evaluateRubric scores the response against each criterion's reference.
func evaluateRubric(ctx context.Context, eval TextEvaluator, r Rubric, resp, composer string) (map[string]float64, error) {
	awarded := make(map[string]float64, len(r.Criteria))
	for _, c := range r.Criteria {
		if c.Reference == "" {
			continue
		}
		best, err := bestEvaluation(ctx, eval, []string{c.Reference}, resp, composer)
		if err != nil {
			return nil, fmt.Errorf("criterion %s: %w", c.Key, err)
		}
		awarded[c.Key] = pointsFor(best.FinalScore, c.MaxPoints)
	}
	return awarded, nil
}
