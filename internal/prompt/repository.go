package prompt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("prompt: not found")

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	BusinessID string
	Category   Category
	Limit      int
	Offset     int
}

// Repository abstracts data access for prompts.
//
// Ordering contract: ListActive returns prompts in strictly descending
// priority, ties broken by insertion order.
type Repository interface {
	Create(ctx context.Context, p Prompt) (Prompt, error)
	Get(ctx context.Context, id string) (Prompt, error)
	Update(ctx context.Context, p Prompt) (Prompt, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]Prompt, error)
	ListActive(ctx context.Context, businessID string) ([]Prompt, error)
}

// PostgresRepo persists prompts in Postgres.
//
// NOTE: assumes a `prompts` table; trigger_phrases and fields_to_collect are
// TEXT columns holding JSON arrays (legacy shape kept for dashboard compat).
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{DB: db} }

const promptColumns = `
id, business_id, name, category, trigger_phrases, content, ai_instructions,
requires_info_collection, fields_to_collect, priority, is_active, created_at, updated_at
`

func (r *PostgresRepo) Create(ctx context.Context, p Prompt) (Prompt, error) {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	const q = `
INSERT INTO prompts (` + promptColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`
	_, err := r.DB.ExecContext(ctx, q,
		p.ID, p.BusinessID, p.Name, p.Category,
		encodeStringList(p.TriggerPhrases), p.Content, p.AIInstructions,
		p.RequiresInfoCollection, encodeStringList(p.FieldsToCollect),
		p.Priority, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return Prompt{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Prompt, error) {
	const q = `SELECT ` + promptColumns + ` FROM prompts WHERE id = $1`
	return scanPrompt(r.DB.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) Update(ctx context.Context, p Prompt) (Prompt, error) {
	p.UpdatedAt = time.Now().UTC()

	const q = `
UPDATE prompts SET
  name=$2, category=$3, trigger_phrases=$4, content=$5, ai_instructions=$6,
  requires_info_collection=$7, fields_to_collect=$8, priority=$9, is_active=$10, updated_at=$11
WHERE id = $1
`
	res, err := r.DB.ExecContext(ctx, q,
		p.ID, p.Name, p.Category, encodeStringList(p.TriggerPhrases), p.Content,
		p.AIInstructions, p.RequiresInfoCollection, encodeStringList(p.FieldsToCollect),
		p.Priority, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return Prompt{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Prompt{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Prompt, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	const q = `
SELECT ` + promptColumns + `
FROM prompts
WHERE ($1 = '' OR business_id = $1)
  AND ($2 = '' OR category = $2)
ORDER BY priority DESC, created_at
LIMIT $3 OFFSET $4
`
	rows, err := r.DB.QueryContext(ctx, q, f.BusinessID, string(f.Category), f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrompts(rows)
}

func (r *PostgresRepo) ListActive(ctx context.Context, businessID string) ([]Prompt, error) {
	const q = `
SELECT ` + promptColumns + `
FROM prompts
WHERE business_id = $1 AND is_active
ORDER BY priority DESC, created_at
`
	rows, err := r.DB.QueryContext(ctx, q, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrompts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collectPrompts(rows *sql.Rows) ([]Prompt, error) {
	out := make([]Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPrompt(row rowScanner) (Prompt, error) {
	var p Prompt
	var triggers, fields sql.NullString
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.Name, &p.Category, &triggers, &p.Content, &p.AIInstructions,
		&p.RequiresInfoCollection, &fields, &p.Priority, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Prompt{}, ErrNotFound
		}
		return Prompt{}, err
	}
	p.TriggerPhrases = decodeStringList(triggers.String)
	p.FieldsToCollect = decodeStringList(fields.String)
	return p, nil
}

// decodeStringList parses a JSON array column. Decode failure is recovered
// as an empty list, never surfaced: a corrupt row must not break call handling.
func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}
