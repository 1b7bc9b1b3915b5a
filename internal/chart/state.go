// Package chart holds the shared chart view model: the in-memory per-patient
// tooth state, the 32-slot layout, the annotation placement flow, and the
// service that keeps all of it reconciled with the remote store. Every chart
// surface consumes this one module instead of re-deriving its own state shape.
package chart

import (
	"sync"

	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/dental"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
)

// State is the view model for one patient's chart under one numbering
// system. A tooth with no record reads as sound with no annotations. The
// map is rebuilt from scratch on every load; it is never shared between
// patients.
type State struct {
	patientID string
	system    dental.System

	mu    sync.RWMutex
	teeth map[int]*toothState
}

type toothState struct {
	record      *records.ToothRecord
	annotations []annotations.Annotation
}

// NewState creates an empty view model. Until populated, every tooth renders
// as sound so a pending load never flashes a previous patient's data.
func NewState(patientID string, system dental.System) *State {
	return &State{
		patientID: patientID,
		system:    system,
		teeth:     make(map[int]*toothState),
	}
}

func (s *State) PatientID() string     { return s.patientID }
func (s *State) System() dental.System { return s.system }

// Reset drops all tooth state, returning the chart to its default render.
func (s *State) Reset() {
	s.mu.Lock()
	s.teeth = make(map[int]*toothState)
	s.mu.Unlock()
}

// Populate replaces the map contents with freshly loaded rows.
func (s *State) Populate(recs []records.ToothRecord, anns []annotations.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teeth = make(map[int]*toothState)
	for i := range recs {
		rec := recs[i]
		s.entry(rec.ToothNumber).record = &rec
	}
	for _, a := range anns {
		entry := s.entry(a.ToothNumber)
		entry.annotations = append(entry.annotations, a)
	}
}

// entry returns the tooth slot, creating it if needed. Caller holds the lock.
func (s *State) entry(tooth int) *toothState {
	e, ok := s.teeth[tooth]
	if !ok {
		e = &toothState{}
		s.teeth[tooth] = e
	}
	return e
}

// Condition returns the primary diagnosis for a tooth, defaulting to sound
// when no record exists.
func (s *State) Condition(tooth int) dental.Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.teeth[tooth]; ok && e.record != nil {
		return e.record.Condition
	}
	return dental.ConditionSound
}

// Record returns the stored record for a tooth, or nil.
func (s *State) Record(tooth int) *records.ToothRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.teeth[tooth]; ok {
		return e.record
	}
	return nil
}

// Annotations returns a copy of the annotation list for a tooth; empty when
// none are recorded.
func (s *State) Annotations(tooth int) []annotations.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.teeth[tooth]; ok && len(e.annotations) > 0 {
		out := make([]annotations.Annotation, len(e.annotations))
		copy(out, e.annotations)
		return out
	}
	return []annotations.Annotation{}
}

// ApplyRecord upserts a record into the view model. Applying the same record
// twice replaces the first copy rather than duplicating it.
func (s *State) ApplyRecord(rec *records.ToothRecord) {
	if rec == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *rec
	s.entry(rec.ToothNumber).record = &clone
}

// AddAnnotation appends optimistically; callers invoke it before the remote
// write completes and do not roll back on failure.
func (s *State) AddAnnotation(a annotations.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(a.ToothNumber)
	e.annotations = append(e.annotations, a)
}

// RemoveAnnotation deletes by id, returning whether anything was removed.
// Callers invoke it only after the remote delete has been confirmed.
func (s *State) RemoveAnnotation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.teeth {
		for i, a := range e.annotations {
			if a.ID == id {
				e.annotations = append(e.annotations[:i], e.annotations[i+1:]...)
				return true
			}
		}
	}
	return false
}

// maxSeverity returns the highest severity among a tooth's visible
// annotations. ok is false when the tooth has none.
func (s *State) maxSeverity(tooth int) (dental.Severity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.teeth[tooth]
	if !ok {
		return "", false
	}
	best := dental.Severity("")
	found := false
	for _, a := range e.annotations {
		if !a.Visible {
			continue
		}
		if !found || severityRank(a.Severity) > severityRank(best) {
			best = a.Severity
			found = true
		}
	}
	return best, found
}

func severityRank(s dental.Severity) int {
	switch s {
	case dental.SeverityCritical:
		return 4
	case dental.SeverityHigh:
		return 3
	case dental.SeverityMedium:
		return 2
	case dental.SeverityLow:
		return 1
	}
	return 0
}
