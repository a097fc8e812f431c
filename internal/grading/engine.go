// Package grading awards points for a single question response, routing by
// question type. Free-text types are scored by the answer scorer.
package grading

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// ErrBadResponse reports a response whose type the question type cannot grade.
var ErrBadResponse = errors.New("unsupported response type")

// TextEvaluator scores a free-text answer against a reference answer.
type TextEvaluator interface {
	Evaluate(ctx context.Context, req scoring.Request) (scoring.Result, error)
}

// Q is a minimal view of a question needed for grading.
type Q struct {
	ID        string
	Type      string
	Points    float64
	AnswerKey []string
	Rubric    *Rubric // essay only
	// Composer selects the fusion strategy for free-text types; empty uses
	// the active policy's.
	Composer string
}

// Result is the outcome of grading a single question response.
type Result struct {
	AutoPoints  float64  // points awarded automatically
	MaxPoints   float64  // the question's max points
	NeedsManual bool     // true if teacher review is required
	Feedback    []string // optional notes
	// Evaluation is the best free-text evaluation behind AutoPoints, if any.
	Evaluation *scoring.Result
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, response interface{}) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response interface{}) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response interface{}) (Result, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{MaxPoints: q.Points, NeedsManual: true, Feedback: []string{"no strategy available"}}, nil
	}
	return s.Grade(ctx, q, response)
}

// Engine options

type Option func(*config)

type config struct {
	MaxEditDistance   int           // for short-word fuzzy
	AllowPartialMulti bool          // partial credit for mcq_multi without FP
	Evaluator         TextEvaluator // free-text scoring; nil routes free text to manual review
}

func WithMaxEditDistance(n int) Option     { return func(c *config) { c.MaxEditDistance = n } }
func WithPartialMulti(b bool) Option       { return func(c *config) { c.AllowPartialMulti = b } }
func WithEvaluator(e TextEvaluator) Option { return func(c *config) { c.Evaluator = e } }

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{
		MaxEditDistance:   1,
		AllowPartialMulti: true,
	}
	for _, o := range opts {
		o(cfg)
	}
	free := freeTextStrategy{eval: cfg.Evaluator}
	return &defaultGrader{
		strategies: map[string]Strategy{
			"mcq_single":   mcqSingleStrategy{},
			"true_false":   mcqSingleStrategy{},
			"mcq_multi":    mcqMultiStrategy{allowPartial: cfg.AllowPartialMulti},
			"short_word":   shortWordStrategy{maxEdit: cfg.MaxEditDistance},
			"numeric":      numericStrategy{},
			"short_answer": free,
			"theory":       free,
			"essay":        essayStrategy{eval: cfg.Evaluator},
		},
	}
}

// --- Strategies ---

type mcqSingleStrategy struct{}

func (mcqSingleStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points}
	resp, ok := response.(string)
	if !ok {
		return res, fmt.Errorf("%w: want string", ErrBadResponse)
	}
	for _, k := range q.AnswerKey {
		if resp == k {
			res.AutoPoints = q.Points
			return res, nil
		}
	}
	return res, nil
}

type mcqMultiStrategy struct{ allowPartial bool }

func (s mcqMultiStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points}
	respSlice, ok := toStringSlice(response)
	if !ok {
		return res, fmt.Errorf("%w: want []string", ErrBadResponse)
	}
	correct := toSet(q.AnswerKey)
	resp := toSet(respSlice)

	if setEqual(correct, resp) {
		res.AutoPoints = q.Points
		return res, nil
	}
	for r := range resp {
		if _, ok := correct[r]; !ok {
			res.Feedback = append(res.Feedback, "incorrect option selected")
			return res, nil
		}
	}
	if s.allowPartial && len(correct) > 0 {
		res.AutoPoints = q.Points * (float64(len(resp)) / float64(len(correct)))
		res.Feedback = append(res.Feedback, fmt.Sprintf("partial: %d/%d options", len(resp), len(correct)))
	}
	return res, nil
}

type shortWordStrategy struct{ maxEdit int }

func (s shortWordStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points}
	resp, ok := response.(string)
	if !ok {
		return res, fmt.Errorf("%w: want string", ErrBadResponse)
	}
	normResp := normalize(resp)

	fuzzy := false
	for _, k := range q.AnswerKey {
		nk := normalize(k)
		if nk == normResp {
			res.AutoPoints = q.Points
			return res, nil
		}
		if s.maxEdit > 0 && editDistance(nk, normResp) <= s.maxEdit {
			fuzzy = true
		}
	}
	if fuzzy {
		res.AutoPoints = q.Points * 0.5
		res.Feedback = append(res.Feedback, "close match (fuzzy)")
	}
	return res, nil
}

// freeTextStrategy scores the response against every reference in the
// answer key and keeps the best.
type freeTextStrategy struct{ eval TextEvaluator }

func (s freeTextStrategy) Grade(ctx context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points}
	resp, ok := response.(string)
	if !ok {
		return res, fmt.Errorf("%w: want string", ErrBadResponse)
	}
	if s.eval == nil || len(q.AnswerKey) == 0 {
		res.NeedsManual = true
		res.Feedback = append(res.Feedback, "manual grading required")
		return res, nil
	}
	best, err := bestEvaluation(ctx, s.eval, q.AnswerKey, resp, q.Composer)
	if err != nil {
		return res, err
	}
	res.AutoPoints = pointsFor(best.FinalScore, q.Points)
	res.Evaluation = &best
	res.Feedback = append(res.Feedback, scoreFeedback(best))
	return res, nil
}

type essayStrategy struct{ eval TextEvaluator }

// Grade always leaves essays for manual review. With a rubric and an
// evaluator it suggests points per criterion.
func (s essayStrategy) Grade(ctx context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points, NeedsManual: true}
	resp, _ := response.(string)
	if s.eval == nil || q.Rubric == nil || len(q.Rubric.Criteria) == 0 || resp == "" {
		res.Feedback = []string{"manual grading required"}
		return res, nil
	}
	awarded, err := evaluateRubric(ctx, s.eval, *q.Rubric, resp, q.Composer)
	if err != nil {
		return res, err
	}
	total, notes := ScoreRubric(*q.Rubric, awarded)
	if q.Points > 0 && total > q.Points {
		total = q.Points
	}
	res.AutoPoints = total
	res.Feedback = append([]string{"suggested by rubric, review required"}, notes...)
	return res, nil
}

func bestEvaluation(ctx context.Context, eval TextEvaluator, refs []string, resp, composer string) (scoring.Result, error) {
	var best scoring.Result
	found := false
	for _, ref := range refs {
		r, err := eval.Evaluate(ctx, scoring.Request{Reference: ref, Candidate: resp, Composer: composer})
		if errors.Is(err, scoring.ErrReferenceRequired) {
			continue
		}
		if err != nil {
			return best, err
		}
		if !found || r.FinalScore > best.FinalScore {
			best, found = r, true
		}
	}
	if !found {
		return best, scoring.ErrReferenceRequired
	}
	return best, nil
}

// pointsFor scales a 0-10 score onto max points, rounded to 2dp.
func pointsFor(score, max float64) float64 {
	return math.Round(score/10*max*100) / 100
}

func scoreFeedback(r scoring.Result) string {
	if r.Note != "" {
		return r.Note
	}
	return fmt.Sprintf("score %.2f/10 (semantic %.0f%%, keywords %.0f%%)",
		r.FinalScore, r.Signals.Semantic*100, r.Signals.KeywordEffective*100)
}

// helpers

func toStringSlice(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
