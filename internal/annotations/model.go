// Package annotations persists clinician-authored spatial notes placed on a
// tooth's 3D model.
package annotations

import (
	"errors"
	"fmt"
	"time"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

// ErrAnnotationNotFound is returned when an annotation id does not exist.
var ErrAnnotationNotFound = errors.New("annotations: annotation not found")

// Defaults applied when a clinician clicks a point before editing anything.
const (
	DefaultTitle = "new note"
	DefaultColor = "#3b82f6"
)

// Point is a position in the tooth mesh's local coordinate frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Annotation is a spatial note on one tooth. It belongs to exactly one
// (patient, tooth, numbering-system) triple and is never shared.
type Annotation struct {
	ID          string                `json:"id"`
	PatientID   string                `json:"patientId"`
	ToothNumber int                   `json:"toothNumber"` // Universal 1-32
	System      dental.System         `json:"numberingSystem"`
	Position    Point                 `json:"position"`
	Color       string                `json:"color"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        dental.AnnotationType `json:"type"`
	Severity    dental.Severity       `json:"severity"`
	Visible     bool                  `json:"visible"`
	CreatedBy   string                `json:"createdBy"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// Validate checks the annotation before persistence, filling defaults for
// fields the clinician has not edited yet.
func (a *Annotation) Validate() error {
	if a.PatientID == "" {
		return errors.New("annotations: patient id is required")
	}
	if !dental.ValidUniversal(a.ToothNumber) {
		return fmt.Errorf("annotations: tooth number %d out of range", a.ToothNumber)
	}
	if !dental.ValidSystem(a.System) {
		return fmt.Errorf("annotations: unknown numbering system %q", a.System)
	}
	if a.Title == "" {
		a.Title = DefaultTitle
	}
	if a.Color == "" {
		a.Color = DefaultColor
	}
	if a.Type == "" {
		a.Type = dental.AnnotationNote
	}
	if !dental.ValidAnnotationType(a.Type) {
		return fmt.Errorf("annotations: unknown type %q", a.Type)
	}
	if a.Severity == "" {
		a.Severity = dental.SeverityMedium
	}
	if !dental.ValidSeverity(a.Severity) {
		return fmt.Errorf("annotations: unknown severity %q", a.Severity)
	}
	return nil
}

// UpdateFields carries the editable subset for a PATCH. Nil pointers leave
// the stored value untouched.
type UpdateFields struct {
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Type        *dental.AnnotationType `json:"type,omitempty"`
	Severity    *dental.Severity       `json:"severity,omitempty"`
	Color       *string                `json:"color,omitempty"`
	Visible     *bool                  `json:"visible,omitempty"`
}

// Validate rejects updates that would store unknown enum values.
func (f UpdateFields) Validate() error {
	if f.Type != nil && !dental.ValidAnnotationType(*f.Type) {
		return fmt.Errorf("annotations: unknown type %q", *f.Type)
	}
	if f.Severity != nil && !dental.ValidSeverity(*f.Severity) {
		return fmt.Errorf("annotations: unknown severity %q", *f.Severity)
	}
	return nil
}
