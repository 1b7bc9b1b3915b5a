// Package treatments tracks planned and completed dental work and the
// invoices billed for it.
package treatments

import (
	"errors"
	"strings"
	"time"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

var (
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
)

// TreatmentStatus is the lifecycle state of a piece of work.
type TreatmentStatus string

const (
	TreatmentPlanned    TreatmentStatus = "planned"
	TreatmentInProgress TreatmentStatus = "in_progress"
	TreatmentCompleted  TreatmentStatus = "completed"
	TreatmentCancelled  TreatmentStatus = "cancelled"
)

func ValidTreatmentStatus(s TreatmentStatus) bool {
	switch s {
	case TreatmentPlanned, TreatmentInProgress, TreatmentCompleted, TreatmentCancelled:
		return true
	}
	return false
}

// Treatment is one procedure planned or performed on a patient, optionally
// tied to a specific tooth.
type Treatment struct {
	ID            string          `json:"id"`
	PatientID     string          `json:"patient_id"`
	ToothNumber   *int            `json:"tooth_number,omitempty"`
	ProcedureCode string          `json:"procedure_code"`
	Description   string          `json:"description,omitempty"`
	Status        TreatmentStatus `json:"status"`
	CostCents     int64           `json:"cost_cents"`
	PerformedBy   string          `json:"performed_by,omitempty"`
	PerformedAt   *time.Time      `json:"performed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate checks the treatment before persistence and applies defaults.
func (t *Treatment) Validate() error {
	if strings.TrimSpace(t.PatientID) == "" {
		return errors.New("patient_id is required")
	}
	if strings.TrimSpace(t.ProcedureCode) == "" {
		return errors.New("procedure_code is required")
	}
	if t.ToothNumber != nil && !dental.ValidUniversal(*t.ToothNumber) {
		return errors.New("tooth_number out of range")
	}
	if t.Status == "" {
		t.Status = TreatmentPlanned
	}
	if !ValidTreatmentStatus(t.Status) {
		return errors.New("unknown treatment status")
	}
	if t.CostCents < 0 {
		return errors.New("cost_cents must not be negative")
	}
	return nil
}

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceVoid:
		return true
	}
	return false
}

// Invoice bills a set of treatments to a patient.
type Invoice struct {
	ID           string        `json:"id"`
	PatientID    string        `json:"patient_id"`
	TreatmentIDs []string      `json:"treatment_ids"`
	AmountCents  int64         `json:"amount_cents"`
	Status       InvoiceStatus `json:"status"`
	IssuedAt     *time.Time    `json:"issued_at,omitempty"`
	PaidAt       *time.Time    `json:"paid_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Validate checks the invoice before persistence.
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.PatientID) == "" {
		return errors.New("patient_id is required")
	}
	if len(i.TreatmentIDs) == 0 {
		return errors.New("at least one treatment is required")
	}
	if i.Status == "" {
		i.Status = InvoiceDraft
	}
	if !ValidInvoiceStatus(i.Status) {
		return errors.New("unknown invoice status")
	}
	if i.AmountCents < 0 {
		return errors.New("amount_cents must not be negative")
	}
	return nil
}

// PatientBalance summarizes a patient's financial position.
type PatientBalance struct {
	PatientID        string `json:"patient_id"`
	BilledCents      int64  `json:"billed_cents"`
	PaidCents        int64  `json:"paid_cents"`
	OutstandingCents int64  `json:"outstanding_cents"`
}
