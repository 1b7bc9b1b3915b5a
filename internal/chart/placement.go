package chart

import (
	"errors"

	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

// PlacementPhase tracks the annotation placement flow.
type PlacementPhase string

const (
	PhaseIdle    PlacementPhase = "idle"
	PhaseArmed   PlacementPhase = "armed"
	PhaseEditing PlacementPhase = "editing"
)

var (
	// ErrNotArmed is returned when a pick point arrives outside add-annotation mode.
	ErrNotArmed = errors.New("chart: placement not armed")
	// ErrNoDraft is returned when committing with nothing captured.
	ErrNoDraft = errors.New("chart: no draft annotation to commit")
)

// Placement is the single normalized state machine for placing an annotation
// on the 3D model: idle, armed (add-annotation mode on), editing (a point has
// been captured and the detail dialog is open). Cancel always discards the
// draft, so no chart surface can leak a dangling unsaved annotation.
type Placement struct {
	phase PlacementPhase
	draft *annotations.Annotation
}

func NewPlacement() *Placement {
	return &Placement{phase: PhaseIdle}
}

func (p *Placement) Phase() PlacementPhase { return p.phase }

// Draft returns the captured annotation while editing, or nil.
func (p *Placement) Draft() *annotations.Annotation { return p.draft }

// Arm enters add-annotation mode. Arming while editing discards the draft.
func (p *Placement) Arm() {
	p.draft = nil
	p.phase = PhaseArmed
}

// Disarm leaves add-annotation mode without capturing a point.
func (p *Placement) Disarm() {
	if p.phase == PhaseArmed {
		p.phase = PhaseIdle
	}
}

// CapturePoint records a raycast hit in the tooth mesh's local frame and
// opens the draft with placement defaults. Only legal while armed.
func (p *Placement) CapturePoint(patientID string, tooth int, system dental.System, point annotations.Point, author string) (*annotations.Annotation, error) {
	if p.phase != PhaseArmed {
		return nil, ErrNotArmed
	}
	draft := &annotations.Annotation{
		PatientID:   patientID,
		ToothNumber: tooth,
		System:      system,
		Position:    point,
		Title:       annotations.DefaultTitle,
		Color:       annotations.DefaultColor,
		Type:        dental.AnnotationNote,
		Severity:    dental.SeverityMedium,
		Visible:     true,
		CreatedBy:   author,
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	p.draft = draft
	p.phase = PhaseEditing
	return draft, nil
}

// Cancel discards the draft and returns to idle. This is the explicit
// discard-on-cancel transition: a cancelled edit leaves nothing behind,
// locally or remotely.
func (p *Placement) Cancel() {
	p.draft = nil
	p.phase = PhaseIdle
}

// Commit hands the draft to the caller for persistence and returns to idle.
func (p *Placement) Commit() (*annotations.Annotation, error) {
	if p.phase != PhaseEditing || p.draft == nil {
		return nil, ErrNoDraft
	}
	draft := p.draft
	p.draft = nil
	p.phase = PhaseIdle
	return draft, nil
}
