// Package patients manages the clinic's patient registry: demographics,
// contact details and the medical alerts the chart surfaces before treatment.
package patients

import (
	"errors"
	"strings"
	"time"
)

var ErrPatientNotFound = errors.New("patient not found")

// Patient is a registered patient of the clinic.
type Patient struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	MedicalAlerts     []string   `json:"medical_alerts"`
	Allergies         []string   `json:"allergies"`
	InsuranceProvider string     `json:"insurance_provider,omitempty"`
	InsuranceMemberID string     `json:"insurance_member_id,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	Archived          bool       `json:"archived"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FullName joins the name parts for display and search results.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CreatePatientRequest is the payload for registering a patient.
type CreatePatientRequest struct {
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	MedicalAlerts     []string   `json:"medical_alerts,omitempty"`
	Allergies         []string   `json:"allergies,omitempty"`
	InsuranceProvider string     `json:"insurance_provider,omitempty"`
	InsuranceMemberID string     `json:"insurance_member_id,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

// Validate checks required fields before the insert.
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return errors.New("last_name is required")
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return errors.New("email is invalid")
	}
	return nil
}

// UpdatePatientRequest carries partial updates; nil fields are untouched.
type UpdatePatientRequest struct {
	FirstName         *string    `json:"first_name,omitempty"`
	LastName          *string    `json:"last_name,omitempty"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Email             *string    `json:"email,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	MedicalAlerts     *[]string  `json:"medical_alerts,omitempty"`
	Allergies         *[]string  `json:"allergies,omitempty"`
	InsuranceProvider *string    `json:"insurance_provider,omitempty"`
	InsuranceMemberID *string    `json:"insurance_member_id,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	Archived          *bool      `json:"archived,omitempty"`
}

// ListPatientsFilter narrows the patient listing.
type ListPatientsFilter struct {
	Search          string
	IncludeArchived bool
	Limit           int
	Offset          int
}
