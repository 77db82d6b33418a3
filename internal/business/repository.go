package business

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("business: not found")

// Repository abstracts data access for businesses.
type Repository interface {
	Create(ctx context.Context, b Business) (Business, error)
	Get(ctx context.Context, id string) (Business, error)
	FindByVoiceNumber(ctx context.Context, number string) (Business, error)
	Update(ctx context.Context, b Business) (Business, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]Business, error)
}

// PostgresRepo persists businesses in Postgres.
//
// NOTE: assumes a `businesses` table with business_hours and services as
// JSONB columns and a UNIQUE index on voice_number.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{DB: db} }

const businessColumns = `
id, name, business_type, description, phone_number, email, website,
address_line1, address_line2, city, state, zip_code,
business_hours, services, ai_voice, ai_personality, greeting_message,
voice_number, is_active, created_at, updated_at
`

func (r *PostgresRepo) Create(ctx context.Context, b Business) (Business, error) {
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	hours, services, err := encodeJSONFields(b)
	if err != nil {
		return Business{}, err
	}

	const q = `
INSERT INTO businesses (` + businessColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
`
	_, err = r.DB.ExecContext(ctx, q,
		b.ID, b.Name, b.BusinessType, b.Description, b.PhoneNumber, b.Email, b.Website,
		b.AddressLine1, b.AddressLine2, b.City, b.State, b.ZipCode,
		hours, services, b.AIVoice, b.AIPersonality, b.GreetingMessage,
		b.VoiceNumber, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return Business{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Business, error) {
	const q = `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	return scanBusiness(r.DB.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) FindByVoiceNumber(ctx context.Context, number string) (Business, error) {
	const q = `SELECT ` + businessColumns + ` FROM businesses WHERE voice_number = $1 AND is_active`
	return scanBusiness(r.DB.QueryRowContext(ctx, q, number))
}

func (r *PostgresRepo) Update(ctx context.Context, b Business) (Business, error) {
	b.UpdatedAt = time.Now().UTC()

	hours, services, err := encodeJSONFields(b)
	if err != nil {
		return Business{}, err
	}

	const q = `
UPDATE businesses SET
  name=$2, business_type=$3, description=$4, phone_number=$5, email=$6, website=$7,
  address_line1=$8, address_line2=$9, city=$10, state=$11, zip_code=$12,
  business_hours=$13, services=$14, ai_voice=$15, ai_personality=$16, greeting_message=$17,
  voice_number=$18, is_active=$19, updated_at=$20
WHERE id = $1
`
	res, err := r.DB.ExecContext(ctx, q,
		b.ID, b.Name, b.BusinessType, b.Description, b.PhoneNumber, b.Email, b.Website,
		b.AddressLine1, b.AddressLine2, b.City, b.State, b.ZipCode,
		hours, services, b.AIVoice, b.AIPersonality, b.GreetingMessage,
		b.VoiceNumber, b.IsActive, b.UpdatedAt,
	)
	if err != nil {
		return Business{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Business{}, ErrNotFound
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Business, error) {
	const q = `SELECT ` + businessColumns + ` FROM businesses ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (Business, error) {
	var b Business
	var hours, services []byte
	err := row.Scan(
		&b.ID, &b.Name, &b.BusinessType, &b.Description, &b.PhoneNumber, &b.Email, &b.Website,
		&b.AddressLine1, &b.AddressLine2, &b.City, &b.State, &b.ZipCode,
		&hours, &services, &b.AIVoice, &b.AIPersonality, &b.GreetingMessage,
		&b.VoiceNumber, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		return Business{}, err
	}
	// Corrupt JSON columns degrade to empty values rather than failing reads.
	b.Hours = map[string]DayHours{}
	_ = json.Unmarshal(hours, &b.Hours)
	b.Services = []string{}
	_ = json.Unmarshal(services, &b.Services)
	return b, nil
}

func encodeJSONFields(b Business) (hours, services []byte, err error) {
	if b.Hours == nil {
		b.Hours = map[string]DayHours{}
	}
	if b.Services == nil {
		b.Services = []string{}
	}
	hours, err = json.Marshal(b.Hours)
	if err != nil {
		return nil, nil, err
	}
	services, err = json.Marshal(b.Services)
	if err != nil {
		return nil, nil, err
	}
	return hours, services, nil
}
