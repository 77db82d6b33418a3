package call

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"receptionist-platform/pkg/utils"
)

var ErrNotFound = errors.New("call: not found")

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	BusinessID string
	Status     Status
	Limit      int
	Offset     int
}

// FinalizeInput carries everything written at the terminal status webhook.
type FinalizeInput struct {
	Status          Status
	DurationSeconds int
	Transcript      string
	CallSummary     string
	Sentiment       string
	EndedAt         time.Time
}

// Repository abstracts data access for call records.
type Repository interface {
	Create(ctx context.Context, c Call) (Call, error)
	Get(ctx context.Context, id string) (Call, error)
	Update(ctx context.Context, c Call) (Call, error)
	List(ctx context.Context, f ListFilter) ([]Call, error)

	// SaveAction records a mid-call action (e.g. appointment scheduled),
	// merging the collected fields into whatever the row already holds.
	SaveAction(ctx context.Context, id string, collected map[string]any, actionTaken string, details map[string]any) error

	// Finalize writes the terminal fields exactly once at hang-up; a
	// repeated delivery leaves the first write intact.
	Finalize(ctx context.Context, id string, in FinalizeInput) error
}

// PostgresRepo persists call records in Postgres.
//
// NOTE: assumes a `calls` table with collected_info and action_details as
// JSONB columns and an index on provider_call_id.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{DB: db} }

const callColumns = `
id, business_id, provider_call_id, caller_number, called_number,
status, duration_seconds, transcript, call_summary, caller_intent, sentiment,
collected_info, action_taken, action_details, recording_url, started_at, ended_at
`

func (r *PostgresRepo) Create(ctx context.Context, c Call) (Call, error) {
	c.ID = uuid.NewString()
	if c.StartedAt.IsZero() {
		c.StartedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = StatusInProgress
	}

	collected, details, err := encodeJSONFields(c)
	if err != nil {
		return Call{}, err
	}

	const q = `
INSERT INTO calls (` + callColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`
	_, err = r.DB.ExecContext(ctx, q,
		c.ID, c.BusinessID, c.ProviderCallID, c.CallerNumber, c.CalledNumber,
		c.Status, c.DurationSeconds, c.Transcript, c.CallSummary, c.CallerIntent, c.Sentiment,
		collected, c.ActionTaken, details, c.RecordingURL, c.StartedAt, c.EndedAt,
	)
	if err != nil {
		return Call{}, err
	}
	return c, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Call, error) {
	const q = `SELECT ` + callColumns + ` FROM calls WHERE id = $1`
	return scanCall(r.DB.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) Update(ctx context.Context, c Call) (Call, error) {
	collected, details, err := encodeJSONFields(c)
	if err != nil {
		return Call{}, err
	}

	const q = `
UPDATE calls SET
  status=$2, duration_seconds=$3, transcript=$4, call_summary=$5, caller_intent=$6,
  sentiment=$7, collected_info=$8, action_taken=$9, action_details=$10,
  recording_url=$11, ended_at=$12
WHERE id = $1
`
	res, err := r.DB.ExecContext(ctx, q,
		c.ID, c.Status, c.DurationSeconds, c.Transcript, c.CallSummary, c.CallerIntent,
		c.Sentiment, collected, c.ActionTaken, details, c.RecordingURL, c.EndedAt,
	)
	if err != nil {
		return Call{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Call{}, ErrNotFound
	}
	return c, nil
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Call, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	const q = `
SELECT ` + callColumns + `
FROM calls
WHERE ($1 = '' OR business_id = $1)
  AND ($2 = '' OR status = $2)
ORDER BY started_at DESC
LIMIT $3 OFFSET $4
`
	rows, err := r.DB.QueryContext(ctx, q, f.BusinessID, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveAction merges the newly collected fields into the stored ones under a
// row lock, so a webhook retry cannot clobber data written in between.
func (r *PostgresRepo) SaveAction(ctx context.Context, id string, collected map[string]any, actionTaken string, details map[string]any) error {
	return utils.WithTx(ctx, r.DB, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		var stored []byte
		err := tx.QueryRowContext(ctx, `SELECT collected_info FROM calls WHERE id = $1 FOR UPDATE`, id).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		merged := map[string]any{}
		_ = json.Unmarshal(stored, &merged)
		for k, v := range collected {
			merged[k] = v
		}
		collectedJSON, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		detailsJSON, err := json.Marshal(orEmptyMap(details))
		if err != nil {
			return err
		}

		const q = `
UPDATE calls SET collected_info=$2, action_taken=$3, action_details=$4
WHERE id = $1
`
		_, err = tx.ExecContext(ctx, q, id, collectedJSON, actionTaken, detailsJSON)
		return err
	})
}

// Finalize writes the terminal fields once. If the row already carries an
// ended_at the first write wins and the retry is a no-op.
func (r *PostgresRepo) Finalize(ctx context.Context, id string, in FinalizeInput) error {
	return utils.WithTx(ctx, r.DB, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		var ended sql.NullTime
		err := tx.QueryRowContext(ctx, `SELECT ended_at FROM calls WHERE id = $1 FOR UPDATE`, id).Scan(&ended)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if ended.Valid {
			return nil
		}

		const q = `
UPDATE calls SET
  status=$2, duration_seconds=$3, transcript=$4, call_summary=$5, sentiment=$6, ended_at=$7
WHERE id = $1
`
		_, err = tx.ExecContext(ctx, q,
			id, in.Status, in.DurationSeconds, in.Transcript, in.CallSummary, in.Sentiment, in.EndedAt,
		)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(row rowScanner) (Call, error) {
	var c Call
	var collected, details []byte
	var endedAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.BusinessID, &c.ProviderCallID, &c.CallerNumber, &c.CalledNumber,
		&c.Status, &c.DurationSeconds, &c.Transcript, &c.CallSummary, &c.CallerIntent, &c.Sentiment,
		&collected, &c.ActionTaken, &details, &c.RecordingURL, &c.StartedAt, &endedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Call{}, ErrNotFound
		}
		return Call{}, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		c.EndedAt = &t
	}
	// Corrupt JSON columns degrade to empty maps rather than failing reads.
	c.CollectedInfo = map[string]any{}
	_ = json.Unmarshal(collected, &c.CollectedInfo)
	c.ActionDetails = map[string]any{}
	_ = json.Unmarshal(details, &c.ActionDetails)
	return c, nil
}

func encodeJSONFields(c Call) (collected, details []byte, err error) {
	collected, err = json.Marshal(orEmptyMap(c.CollectedInfo))
	if err != nil {
		return nil, nil, err
	}
	details, err = json.Marshal(orEmptyMap(c.ActionDetails))
	if err != nil {
		return nil, nil, err
	}
	return collected, details, nil
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
