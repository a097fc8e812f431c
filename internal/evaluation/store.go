// Package evaluation persists scored answers and records an event for each.
package evaluation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

var ErrNotFound = errors.New("evaluation not found")

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Record is one persisted evaluation.
type Record struct {
	ID           string               `json:"id"`
	Reference    string               `json:"reference"`
	Candidate    string               `json:"candidate"`
	Policy       string               `json:"policy"`
	FinalScore   float64              `json:"finalScore"`
	Signals      scoring.SignalVector `json:"signals"`
	Note         string               `json:"note,omitempty"`
	UsedPairwise bool                 `json:"usedPairwise"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// NewRecord captures an evaluator result for persistence.
func NewRecord(reference, candidate string, res scoring.Result) Record {
	return Record{
		Reference:    reference,
		Candidate:    candidate,
		Policy:       res.Policy,
		FinalScore:   res.FinalScore,
		Signals:      res.Signals,
		Note:         res.Note,
		UsedPairwise: res.UsedPairwise,
	}
}

type Store interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, limit, offset int) ([]Record, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Save inserts r, assigning ID and CreatedAt when unset, and appends an
// AnswerEvaluated event in the same transaction.
func (s *SQLStore) Save(ctx context.Context, r *Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	sig, err := json.Marshal(r.Signals)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{"id": r.ID, "policy": r.Policy, "finalScore": r.FinalScore})
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO evaluations
		(id,reference,candidate,policy,final_score,signals_json,note,used_pairwise,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		r.ID, r.Reference, r.Candidate, r.Policy, r.FinalScore, string(sig), r.Note, r.UsedPairwise, r.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	if err := appendEvent(ctx, tx, Event{Type: EventAnswerEvaluated, Key: r.ID, DataJSON: string(data)}); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return tx.Commit()
}

const selectRecord = `SELECT id,reference,candidate,policy,final_score,signals_json,note,used_pairwise,created_at FROM evaluations`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var sig string
	var created int64
	if err := sc.Scan(&r.ID, &r.Reference, &r.Candidate, &r.Policy, &r.FinalScore, &sig, &r.Note, &r.UsedPairwise, &created); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(sig), &r.Signals); err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	return r, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

// List returns records newest first.
func (s *SQLStore) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, selectRecord+` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
