// Package appointments manages the clinic schedule and drives the reminder
// pipeline: appointments entering the reminder window are queued for email.
package appointments

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransition enforces the schedule lifecycle: terminal states stay
// terminal, and completion requires the visit to have been on the books.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusScheduled:
		return to == StatusConfirmed || to == StatusCancelled || to == StatusCompleted || to == StatusNoShow
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled || to == StatusNoShow
	default:
		return false
	}
}

// Appointment is a scheduled visit.
type Appointment struct {
	ID             string     `json:"id"`
	PatientID      string     `json:"patient_id"`
	ClinicianID    string     `json:"clinician_id"`
	StartsAt       time.Time  `json:"starts_at"`
	DurationMin    int        `json:"duration_min"`
	Status         Status     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EndsAt derives the slot end from the start and duration.
func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMin) * time.Minute)
}

// CreateAppointmentRequest is the payload for booking a visit.
type CreateAppointmentRequest struct {
	PatientID   string    `json:"patient_id"`
	ClinicianID string    `json:"clinician_id"`
	StartsAt    time.Time `json:"starts_at"`
	DurationMin int       `json:"duration_min"`
	Reason      string    `json:"reason,omitempty"`
}

// Validate checks required fields and applies the default slot length.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" {
		return errors.New("patient_id is required")
	}
	if strings.TrimSpace(r.ClinicianID) == "" {
		return errors.New("clinician_id is required")
	}
	if r.StartsAt.IsZero() {
		return errors.New("starts_at is required")
	}
	if r.DurationMin == 0 {
		r.DurationMin = 30
	}
	if r.DurationMin < 5 || r.DurationMin > 480 {
		return errors.New("duration_min out of range")
	}
	return nil
}
