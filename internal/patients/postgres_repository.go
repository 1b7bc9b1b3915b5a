package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const patientColumns = `id, first_name, last_name, date_of_birth, email, phone,
	medical_alerts, allergies, insurance_provider, insurance_member_id,
	notes, archived, created_at, updated_at`

// Create inserts a new patient row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO patients (id, first_name, last_name, date_of_birth, email, phone,
			medical_alerts, allergies, insurance_provider, insurance_member_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.FirstName,
		req.LastName,
		req.DateOfBirth,
		req.Email,
		req.Phone,
		req.MedicalAlerts,
		req.Allergies,
		req.InsuranceProvider,
		req.InsuranceMemberID,
		req.Notes,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("patients: insert failed: %w", err)
	}

	return &Patient{
		ID:                id.String(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Email:             req.Email,
		Phone:             req.Phone,
		MedicalAlerts:     orEmpty(req.MedicalAlerts),
		Allergies:         orEmpty(req.Allergies),
		InsuranceProvider: req.InsuranceProvider,
		InsuranceMemberID: req.InsuranceMemberID,
		Notes:             req.Notes,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

// GetByID fetches a single patient.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	p, err := scanPatient(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of req and returns the updated row.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdatePatientRequest) (*Patient, error) {
	query := `
		UPDATE patients SET
			first_name     = COALESCE($2, first_name),
			last_name      = COALESCE($3, last_name),
			date_of_birth  = COALESCE($4, date_of_birth),
			email          = COALESCE($5, email),
			phone          = COALESCE($6, phone),
			medical_alerts = COALESCE($7, medical_alerts),
			allergies      = COALESCE($8, allergies),
			insurance_provider  = COALESCE($9, insurance_provider),
			insurance_member_id = COALESCE($10, insurance_member_id),
			notes          = COALESCE($11, notes),
			archived       = COALESCE($12, archived),
			updated_at     = NOW()
		WHERE id = $1
		RETURNING ` + patientColumns
	p, err := scanPatient(r.pool.QueryRow(ctx, query, id,
		req.FirstName,
		req.LastName,
		req.DateOfBirth,
		req.Email,
		req.Phone,
		req.MedicalAlerts,
		req.Allergies,
		req.InsuranceProvider,
		req.InsuranceMemberID,
		req.Notes,
		req.Archived,
	))
	if err == pgx.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patients: update failed: %w", err)
	}
	return p, nil
}

// List returns patients matching the filter, most recently updated first.
// Search matches name, email and phone with a case-insensitive substring.
func (r *PostgresRepository) List(ctx context.Context, filter ListPatientsFilter) ([]*Patient, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE ($1 = '' OR first_name || ' ' || last_name ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
		  AND ($2 OR NOT archived)
		ORDER BY updated_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.Search, filter.IncludeArchived, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("patients: list failed: %w", err)
	}
	defer rows.Close()

	result := []*Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("patients: scan failed: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	if err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Email,
		&p.Phone,
		&p.MedicalAlerts,
		&p.Allergies,
		&p.InsuranceProvider,
		&p.InsuranceMemberID,
		&p.Notes,
		&p.Archived,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.MedicalAlerts = orEmpty(p.MedicalAlerts)
	p.Allergies = orEmpty(p.Allergies)
	return &p, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
