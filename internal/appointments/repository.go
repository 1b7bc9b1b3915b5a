package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores appointments in the relational database.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{pool: pool}
}

const apptColumns = `id, patient_id, clinician_id, starts_at, duration_min,
	status, reason, reminder_sent_at, created_at, updated_at`

// Create books a new appointment in the scheduled state.
func (r *Repository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO appointments (id, patient_id, clinician_id, starts_at, duration_min, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.PatientID,
		req.ClinicianID,
		req.StartsAt.UTC(),
		req.DurationMin,
		string(StatusScheduled),
		req.Reason,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	return &Appointment{
		ID:          id.String(),
		PatientID:   req.PatientID,
		ClinicianID: req.ClinicianID,
		StartsAt:    req.StartsAt.UTC(),
		DurationMin: req.DurationMin,
		Status:      StatusScheduled,
		Reason:      req.Reason,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// GetByID fetches a single appointment.
func (r *Repository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return a, nil
}

// ListByPatient returns a patient's appointments, soonest first.
func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments WHERE patient_id = $1 ORDER BY starts_at`
	return r.queryList(ctx, query, patientID)
}

// ListUpcoming returns appointments starting inside the window that are
// still on the books.
func (r *Repository) ListUpcoming(ctx context.Context, from time.Time, window time.Duration) ([]*Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE starts_at >= $1 AND starts_at < $2
		  AND status IN ($3, $4)
		ORDER BY starts_at
	`
	return r.queryList(ctx, query, from.UTC(), from.Add(window).UTC(),
		string(StatusScheduled), string(StatusConfirmed))
}

// DueForReminder returns appointments inside the reminder lead time that
// have not been reminded yet.
func (r *Repository) DueForReminder(ctx context.Context, now time.Time, leadTime time.Duration) ([]*Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE starts_at > $1 AND starts_at <= $2
		  AND status IN ($3, $4)
		  AND reminder_sent_at IS NULL
		ORDER BY starts_at
	`
	return r.queryList(ctx, query, now.UTC(), now.Add(leadTime).UTC(),
		string(StatusScheduled), string(StatusConfirmed))
}

// MarkReminderSent stamps the appointment so the worker never double-sends.
func (r *Repository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET reminder_sent_at = $2, updated_at = NOW()
		WHERE id = $1 AND reminder_sent_at IS NULL`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("appointments: mark reminder failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// UpdateStatus moves the appointment through its lifecycle.
func (r *Repository) UpdateStatus(ctx context.Context, id string, to Status) (*Appointment, error) {
	if !ValidStatus(to) {
		return nil, fmt.Errorf("appointments: unknown status %q", to)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	query := `
		UPDATE appointments SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + apptColumns
	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id, string(to)))
	if err == pgx.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: update status failed: %w", err)
	}
	return a, nil
}

func (r *Repository) queryList(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: query failed: %w", err)
	}
	defer rows.Close()

	result := []*Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	if err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ClinicianID,
		&a.StartsAt,
		&a.DurationMin,
		&status,
		&a.Reason,
		&a.ReminderSentAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}
