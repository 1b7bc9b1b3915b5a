// Package records persists the comprehensive per-tooth clinical record.
package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

// ErrRecordNotFound is returned when no record exists for a tooth.
var ErrRecordNotFound = errors.New("records: tooth record not found")

// SurfaceConditions tracks the six tooth surfaces independently of the
// primary diagnosis. Zero values render as sound.
type SurfaceConditions struct {
	Mesial   dental.Condition `json:"mesial"`
	Distal   dental.Condition `json:"distal"`
	Buccal   dental.Condition `json:"buccal"`
	Lingual  dental.Condition `json:"lingual"`
	Occlusal dental.Condition `json:"occlusal"`
	Incisal  dental.Condition `json:"incisal"`
}

// normalize fills empty surfaces with sound so stored rows are explicit.
func (s *SurfaceConditions) normalize() {
	fields := []*dental.Condition{&s.Mesial, &s.Distal, &s.Buccal, &s.Lingual, &s.Occlusal, &s.Incisal}
	for _, f := range fields {
		if *f == "" {
			*f = dental.ConditionSound
		}
	}
}

func (s SurfaceConditions) validate() error {
	fields := map[dental.Surface]dental.Condition{
		dental.SurfaceMesial:   s.Mesial,
		dental.SurfaceDistal:   s.Distal,
		dental.SurfaceBuccal:   s.Buccal,
		dental.SurfaceLingual:  s.Lingual,
		dental.SurfaceOcclusal: s.Occlusal,
		dental.SurfaceIncisal:  s.Incisal,
	}
	for surface, cond := range fields {
		if cond != "" && !dental.ValidCondition(cond) {
			return fmt.Errorf("records: invalid condition %q on surface %s", cond, surface)
		}
	}
	return nil
}

// ToothRecord is the comprehensive clinical record for one tooth of one
// patient under one numbering system. Records are created on first save,
// updated in place afterwards, and never hard-deleted.
type ToothRecord struct {
	ID                string            `json:"id"`
	PatientID         string            `json:"patientId"`
	ToothNumber       int               `json:"toothNumber"` // Universal 1-32
	System            dental.System     `json:"numberingSystem"`
	Condition         dental.Condition  `json:"condition"`
	Surfaces          SurfaceConditions `json:"surfaces"`
	Mobility          int               `json:"mobility"` // grade 0-3
	ProbingDepths     []int64           `json:"probingDepths,omitempty"` // six-point, mm
	BleedingOnProbing bool              `json:"bleedingOnProbing"`
	Recession         []int64           `json:"recession,omitempty"` // six-point, mm
	RootCount         int               `json:"rootCount"`
	RootCanalTreated  bool              `json:"rootCanalTreated"`
	RootConditions    []string          `json:"rootConditions,omitempty"`
	Notes             string            `json:"notes"`
	Priority          dental.Priority   `json:"priority"`
	Version           int               `json:"version"`
	CreatedBy         string            `json:"createdBy"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// Validate checks the record before any write is attempted. Failures abort
// the save with no partial state change.
func (r *ToothRecord) Validate() error {
	if r.PatientID == "" {
		return errors.New("records: patient id is required")
	}
	if !dental.ValidUniversal(r.ToothNumber) {
		return fmt.Errorf("records: tooth number %d out of range", r.ToothNumber)
	}
	if !dental.ValidSystem(r.System) {
		return fmt.Errorf("records: unknown numbering system %q", r.System)
	}
	if r.Condition == "" {
		r.Condition = dental.ConditionSound
	}
	if !dental.ValidCondition(r.Condition) {
		return fmt.Errorf("records: unknown condition %q", r.Condition)
	}
	if err := r.Surfaces.validate(); err != nil {
		return err
	}
	r.Surfaces.normalize()
	if r.Mobility < 0 || r.Mobility > 3 {
		return fmt.Errorf("records: mobility grade %d out of range", r.Mobility)
	}
	if n := len(r.ProbingDepths); n != 0 && n != 6 {
		return fmt.Errorf("records: probing depths need 6 points, got %d", n)
	}
	if n := len(r.Recession); n != 0 && n != 6 {
		return fmt.Errorf("records: recession needs 6 points, got %d", n)
	}
	if r.Priority == "" {
		r.Priority = dental.PriorityLow
	}
	if !dental.ValidPriority(r.Priority) {
		return fmt.Errorf("records: unknown priority %q", r.Priority)
	}
	return nil
}
