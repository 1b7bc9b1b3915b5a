package annotations

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

const annotationColumns = `id, patient_id, tooth_number, numbering_system,
       pos_x, pos_y, pos_z, color, title, description, annotation_type, severity, visible,
       created_by, created_at, updated_at`

// Repository stores annotations in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListByPatient returns all annotations for a patient under one numbering
// system, ordered by creation time.
func (r *Repository) ListByPatient(ctx context.Context, patientID string, system dental.System) ([]Annotation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+annotationColumns+`
		FROM tooth_annotations
		WHERE patient_id = $1 AND numbering_system = $2
		ORDER BY created_at ASC`, patientID, system)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListForTooth narrows the scope to one tooth.
func (r *Repository) ListForTooth(ctx context.Context, patientID string, tooth int, system dental.System) ([]Annotation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+annotationColumns+`
		FROM tooth_annotations
		WHERE patient_id = $1 AND tooth_number = $2 AND numbering_system = $3
		ORDER BY created_at ASC`, patientID, tooth, system)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Insert persists a new annotation.
func (r *Repository) Insert(ctx context.Context, a *Annotation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO tooth_annotations (id, patient_id, tooth_number, numbering_system,
		    pos_x, pos_y, pos_z, color, title, description, annotation_type, severity, visible, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.ToothNumber, a.System,
		a.Position.X, a.Position.Y, a.Position.Z,
		a.Color, a.Title, a.Description, a.Type, a.Severity, a.Visible, a.CreatedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// Update applies the non-nil fields to an existing annotation and returns
// the stored row, or ErrAnnotationNotFound.
func (r *Repository) Update(ctx context.Context, id string, fields UpdateFields) (*Annotation, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE tooth_annotations SET
		    title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    annotation_type = COALESCE($4, annotation_type),
		    severity = COALESCE($5, severity),
		    color = COALESCE($6, color),
		    visible = COALESCE($7, visible),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+annotationColumns,
		id, fields.Title, fields.Description, fields.Type, fields.Severity, fields.Color, fields.Visible)
	a, err := scanAnnotation(row)
	if err == sql.ErrNoRows {
		return nil, ErrAnnotationNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an annotation, or returns ErrAnnotationNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tooth_annotations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAnnotationNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(row rowScanner) (*Annotation, error) {
	var a Annotation
	if err := row.Scan(
		&a.ID, &a.PatientID, &a.ToothNumber, &a.System,
		&a.Position.X, &a.Position.Y, &a.Position.Z,
		&a.Color, &a.Title, &a.Description, &a.Type, &a.Severity, &a.Visible,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func collect(rows *sql.Rows) ([]Annotation, error) {
	var out []Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if out == nil {
		out = []Annotation{}
	}
	return out, rows.Err()
}
