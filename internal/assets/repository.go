package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

var ErrModelNotFound = errors.New("tooth model not found")

// ToothModel is the metadata row for one mesh stored in S3.
type ToothModel struct {
	ID        string           `json:"id"`
	ToothType dental.ToothType `json:"tooth_type"`
	Variant   string           `json:"variant"`
	Version   int              `json:"version"`
	S3Key     string           `json:"s3_key"`
	SizeBytes int64            `json:"size_bytes"`
	CreatedAt time.Time        `json:"created_at"`
}

// Repository persists tooth model metadata in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const modelColumns = `id, tooth_type, variant, version, s3_key, size_bytes, created_at`

// Active returns the highest-version model for a tooth type and variant.
func (r *Repository) Active(ctx context.Context, toothType dental.ToothType, variant string) (*ToothModel, error) {
	if variant == "" {
		variant = "default"
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+modelColumns+`
		FROM tooth_models
		WHERE tooth_type = $1 AND variant = $2
		ORDER BY version DESC
		LIMIT 1`, string(toothType), variant)

	m, err := scanModel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("assets: query active model: %w", err)
	}
	return m, nil
}

// List returns all registered models, newest first.
func (r *Repository) List(ctx context.Context) ([]ToothModel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+modelColumns+`
		FROM tooth_models
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("assets: list models: %w", err)
	}
	defer rows.Close()

	models := []ToothModel{}
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("assets: scan model: %w", err)
		}
		models = append(models, *m)
	}
	return models, rows.Err()
}

// Insert registers a newly uploaded mesh.
func (r *Repository) Insert(ctx context.Context, m *ToothModel) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Variant == "" {
		m.Variant = "default"
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tooth_models (id, tooth_type, variant, version, s3_key, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		m.ID, string(m.ToothType), m.Variant, m.Version, m.S3Key, m.SizeBytes,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("assets: insert model: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModel(row rowScanner) (*ToothModel, error) {
	var m ToothModel
	var toothType string
	if err := row.Scan(&m.ID, &toothType, &m.Variant, &m.Version, &m.S3Key, &m.SizeBytes, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ToothType = dental.ToothType(toothType)
	return &m, nil
}
