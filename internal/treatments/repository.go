package treatments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository persists treatments and invoices in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const treatmentColumns = `id, patient_id, tooth_number, procedure_code, description,
	status, cost_cents, performed_by, performed_at, created_at, updated_at`

const invoiceColumns = `id, patient_id, treatment_ids, amount_cents, status,
	issued_at, paid_at, created_at, updated_at`

// CreateTreatment inserts a validated treatment.
func (r *Repository) CreateTreatment(ctx context.Context, t *Treatment) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO treatments (id, patient_id, tooth_number, procedure_code, description, status, cost_cents, performed_by, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		t.ID, t.PatientID, t.ToothNumber, t.ProcedureCode, t.Description,
		string(t.Status), t.CostCents, t.PerformedBy, t.PerformedAt,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("treatments: insert failed: %w", err)
	}
	return nil
}

// GetTreatment fetches one treatment.
func (r *Repository) GetTreatment(ctx context.Context, id string) (*Treatment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+treatmentColumns+` FROM treatments WHERE id = $1`, id)
	t, err := scanTreatment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("treatments: select failed: %w", err)
	}
	return t, nil
}

// ListTreatmentsByPatient returns a patient's treatments, newest first.
// An empty status matches all.
func (r *Repository) ListTreatmentsByPatient(ctx context.Context, patientID string, status TreatmentStatus) ([]Treatment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+treatmentColumns+`
		FROM treatments
		WHERE patient_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`, patientID, string(status))
	if err != nil {
		return nil, fmt.Errorf("treatments: list failed: %w", err)
	}
	defer rows.Close()

	result := []Treatment{}
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, fmt.Errorf("treatments: scan failed: %w", err)
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// UpdateTreatmentStatus moves a treatment through its lifecycle; completing
// it stamps performed_at and performed_by.
func (r *Repository) UpdateTreatmentStatus(ctx context.Context, id string, status TreatmentStatus, performedBy string) (*Treatment, error) {
	if !ValidTreatmentStatus(status) {
		return nil, fmt.Errorf("treatments: unknown status %q", status)
	}

	var performedAt *time.Time
	if status == TreatmentCompleted {
		now := time.Now().UTC()
		performedAt = &now
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE treatments SET
			status       = $2,
			performed_by = COALESCE(NULLIF($3, ''), performed_by),
			performed_at = COALESCE($4, performed_at),
			updated_at   = NOW()
		WHERE id = $1
		RETURNING `+treatmentColumns,
		id, string(status), performedBy, performedAt)

	t, err := scanTreatment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("treatments: update failed: %w", err)
	}
	return t, nil
}

// CreateInvoice inserts a validated invoice in draft state.
func (r *Repository) CreateInvoice(ctx context.Context, inv *Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO invoices (id, patient_id, treatment_ids, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		inv.ID, inv.PatientID, pq.Array(inv.TreatmentIDs), inv.AmountCents, string(inv.Status),
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("treatments: insert invoice failed: %w", err)
	}
	return nil
}

// GetInvoice fetches one invoice.
func (r *Repository) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("treatments: select invoice failed: %w", err)
	}
	return inv, nil
}

// ListInvoicesByPatient returns a patient's invoices, newest first.
func (r *Repository) ListInvoicesByPatient(ctx context.Context, patientID string) ([]Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE patient_id = $1
		ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("treatments: list invoices failed: %w", err)
	}
	defer rows.Close()

	result := []Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("treatments: scan invoice failed: %w", err)
		}
		result = append(result, *inv)
	}
	return result, rows.Err()
}

// UpdateInvoiceStatus moves an invoice; issuing stamps issued_at and paying
// stamps paid_at.
func (r *Repository) UpdateInvoiceStatus(ctx context.Context, id string, status InvoiceStatus) (*Invoice, error) {
	if !ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("treatments: unknown invoice status %q", status)
	}

	now := time.Now().UTC()
	var issuedAt, paidAt *time.Time
	switch status {
	case InvoiceIssued:
		issuedAt = &now
	case InvoicePaid:
		paidAt = &now
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE invoices SET
			status     = $2,
			issued_at  = COALESCE($3, issued_at),
			paid_at    = COALESCE($4, paid_at),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+invoiceColumns,
		id, string(status), issuedAt, paidAt)

	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("treatments: update invoice failed: %w", err)
	}
	return inv, nil
}

// Balance sums a patient's non-void invoices into a financial summary.
func (r *Repository) Balance(ctx context.Context, patientID string) (*PatientBalance, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE status IN ('issued', 'paid')), 0),
			COALESCE(SUM(amount_cents) FILTER (WHERE status = 'paid'), 0)
		FROM invoices
		WHERE patient_id = $1`, patientID)

	b := PatientBalance{PatientID: patientID}
	if err := row.Scan(&b.BilledCents, &b.PaidCents); err != nil {
		return nil, fmt.Errorf("treatments: balance failed: %w", err)
	}
	b.OutstandingCents = b.BilledCents - b.PaidCents
	return &b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTreatment(row rowScanner) (*Treatment, error) {
	var t Treatment
	var status string
	if err := row.Scan(
		&t.ID,
		&t.PatientID,
		&t.ToothNumber,
		&t.ProcedureCode,
		&t.Description,
		&status,
		&t.CostCents,
		&t.PerformedBy,
		&t.PerformedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = TreatmentStatus(status)
	return &t, nil
}

func scanInvoice(row rowScanner) (*Invoice, error) {
	var inv Invoice
	var status string
	if err := row.Scan(
		&inv.ID,
		&inv.PatientID,
		pq.Array(&inv.TreatmentIDs),
		&inv.AmountCents,
		&status,
		&inv.IssuedAt,
		&inv.PaidAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.Status = InvoiceStatus(status)
	if inv.TreatmentIDs == nil {
		inv.TreatmentIDs = []string{}
	}
	return &inv, nil
}
