package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("integration: not found")

// Repository abstracts data access for integrations.
type Repository interface {
	Create(ctx context.Context, i Integration) (Integration, error)
	Get(ctx context.Context, id string) (Integration, error)
	Update(ctx context.Context, i Integration) (Integration, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, businessID string) ([]Integration, error)
}

// PostgresRepo persists integrations in Postgres.
//
// NOTE: assumes an `integrations` table with config as a JSONB column.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{DB: db} }

const integrationColumns = `
id, business_id, name, integration_type, api_base_url, api_key, api_secret,
config, access_token, refresh_token, token_expires_at,
is_active, is_connected, last_sync_at, last_error, created_at, updated_at
`

func (r *PostgresRepo) Create(ctx context.Context, i Integration) (Integration, error) {
	now := time.Now().UTC()
	i.ID = uuid.NewString()
	i.CreatedAt = now
	i.UpdatedAt = now

	cfg, err := json.Marshal(orEmptyMap(i.Config))
	if err != nil {
		return Integration{}, err
	}

	const q = `
INSERT INTO integrations (` + integrationColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`
	_, err = r.DB.ExecContext(ctx, q,
		i.ID, i.BusinessID, i.Name, i.IntegrationType, i.APIBaseURL, i.APIKey, i.APISecret,
		cfg, i.AccessToken, i.RefreshToken, i.TokenExpiresAt,
		i.IsActive, i.IsConnected, i.LastSyncAt, i.LastError, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return Integration{}, err
	}
	return i, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Integration, error) {
	const q = `SELECT ` + integrationColumns + ` FROM integrations WHERE id = $1`
	return scanIntegration(r.DB.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) Update(ctx context.Context, i Integration) (Integration, error) {
	i.UpdatedAt = time.Now().UTC()

	cfg, err := json.Marshal(orEmptyMap(i.Config))
	if err != nil {
		return Integration{}, err
	}

	const q = `
UPDATE integrations SET
  name=$2, integration_type=$3, api_base_url=$4, api_key=$5, api_secret=$6,
  config=$7, access_token=$8, refresh_token=$9, token_expires_at=$10,
  is_active=$11, is_connected=$12, last_sync_at=$13, last_error=$14, updated_at=$15
WHERE id = $1
`
	res, err := r.DB.ExecContext(ctx, q,
		i.ID, i.Name, i.IntegrationType, i.APIBaseURL, i.APIKey, i.APISecret,
		cfg, i.AccessToken, i.RefreshToken, i.TokenExpiresAt,
		i.IsActive, i.IsConnected, i.LastSyncAt, i.LastError, i.UpdatedAt,
	)
	if err != nil {
		return Integration{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Integration{}, ErrNotFound
	}
	return i, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM integrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, businessID string) ([]Integration, error) {
	const q = `
SELECT ` + integrationColumns + `
FROM integrations
WHERE ($1 = '' OR business_id = $1)
ORDER BY created_at
`
	rows, err := r.DB.QueryContext(ctx, q, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Integration, 0)
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIntegration(row rowScanner) (Integration, error) {
	var i Integration
	var cfg []byte
	var tokenExpires, lastSync sql.NullTime
	err := row.Scan(
		&i.ID, &i.BusinessID, &i.Name, &i.IntegrationType, &i.APIBaseURL, &i.APIKey, &i.APISecret,
		&cfg, &i.AccessToken, &i.RefreshToken, &tokenExpires,
		&i.IsActive, &i.IsConnected, &lastSync, &i.LastError, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Integration{}, ErrNotFound
		}
		return Integration{}, err
	}
	if tokenExpires.Valid {
		t := tokenExpires.Time
		i.TokenExpiresAt = &t
	}
	if lastSync.Valid {
		t := lastSync.Time
		i.LastSyncAt = &t
	}
	i.Config = map[string]any{}
	_ = json.Unmarshal(cfg, &i.Config)
	return i, nil
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
