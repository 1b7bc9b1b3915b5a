package chart

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/dental"
	"github.com/dentalworks/dental-clinic-platform/internal/observability/metrics"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// RecordStore is the subset of the records repository the service uses.
type RecordStore interface {
	ListByPatient(ctx context.Context, patientID string) ([]records.ToothRecord, error)
	Upsert(ctx context.Context, rec *records.ToothRecord) error
}

// AnnotationStore is the subset of the annotations repository the service uses.
type AnnotationStore interface {
	ListByPatient(ctx context.Context, patientID string, system dental.System) ([]annotations.Annotation, error)
	ListForTooth(ctx context.Context, patientID string, tooth int, system dental.System) ([]annotations.Annotation, error)
	Insert(ctx context.Context, a *annotations.Annotation) error
	Update(ctx context.Context, id string, fields annotations.UpdateFields) (*annotations.Annotation, error)
	Delete(ctx context.Context, id string) error
}

// Event describes a chart mutation for live viewers.
type Event struct {
	Type        string        `json:"type"` // record.saved, annotation.added, annotation.updated, annotation.deleted
	PatientID   string        `json:"patientId"`
	ToothNumber int           `json:"toothNumber,omitempty"`
	System      dental.System `json:"numberingSystem,omitempty"`
	ID          string        `json:"id,omitempty"`
}

// Broadcaster pushes chart events to subscribed viewers.
type Broadcaster interface {
	Broadcast(patientID string, event Event)
}

// Service orchestrates chart loads and mutations: repositories, the snapshot
// cache, metrics, and the live broadcast. Cache and broadcaster are optional.
type Service struct {
	records     RecordStore
	annotations AnnotationStore
	cache       *SnapshotCache
	live        Broadcaster
	metrics     *metrics.ChartMetrics
	logger      *logging.Logger
	tracer      trace.Tracer
}

func NewService(recordStore RecordStore, annotationStore AnnotationStore, cache *SnapshotCache, live Broadcaster, m *metrics.ChartMetrics, logger *logging.Logger) *Service {
	if recordStore == nil || annotationStore == nil {
		panic("chart: record and annotation stores are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		records:     recordStore,
		annotations: annotationStore,
		cache:       cache,
		live:        live,
		metrics:     m,
		logger:      logger,
		tracer:      otel.Tracer("dental.internal.chart"),
	}
}

// LoadForPatient builds a fresh view model for one patient and numbering
// system. On a read failure the returned state is empty (all teeth sound, no
// annotations) alongside the error, so callers can render a degraded chart
// instead of crashing.
func (s *Service) LoadForPatient(ctx context.Context, patientID string, system dental.System) (*State, error) {
	ctx, span := s.tracer.Start(ctx, "chart.load_for_patient")
	defer span.End()
	start := time.Now()

	state := NewState(patientID, system)

	if s.cache != nil {
		snap, err := s.cache.Load(ctx, patientID, system)
		if err != nil {
			s.logger.Warn("chart snapshot load failed, falling through to db", "patient_id", patientID, "error", err)
		} else if snap != nil {
			state.Populate(snap.Records, snap.Annotations)
			s.metrics.ObserveChartLoad("ok", "cache")
			s.metrics.ObserveLoadLatency("cache", time.Since(start).Seconds())
			return state, nil
		}
	}

	recs, err := s.records.ListByPatient(ctx, patientID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveChartLoad("error", "db")
		return state, err
	}
	anns, err := s.annotations.ListByPatient(ctx, patientID, system)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveChartLoad("error", "db")
		return state, err
	}

	// Records for other numbering systems belong to other chart views.
	filtered := recs[:0]
	for _, rec := range recs {
		if rec.System == system {
			filtered = append(filtered, rec)
		}
	}
	state.Populate(filtered, anns)

	if s.cache != nil {
		if err := s.cache.Save(ctx, patientID, system, &Snapshot{Records: filtered, Annotations: anns}); err != nil {
			s.logger.Warn("chart snapshot save failed", "patient_id", patientID, "error", err)
		}
	}
	s.metrics.ObserveChartLoad("ok", "db")
	s.metrics.ObserveLoadLatency("db", time.Since(start).Seconds())
	return state, nil
}

// UpsertRecord validates and persists a tooth record atomically, then
// invalidates cached snapshots and notifies live viewers.
func (s *Service) UpsertRecord(ctx context.Context, rec *records.ToothRecord) error {
	ctx, span := s.tracer.Start(ctx, "chart.upsert_record")
	defer span.End()

	if err := rec.Validate(); err != nil {
		return err
	}
	if err := s.records.Upsert(ctx, rec); err != nil {
		span.RecordError(err)
		s.metrics.ObserveRecordSave("error")
		return err
	}
	s.metrics.ObserveRecordSave("ok")
	s.invalidate(ctx, rec.PatientID)
	s.broadcast(rec.PatientID, Event{
		Type:        "record.saved",
		PatientID:   rec.PatientID,
		ToothNumber: rec.ToothNumber,
		System:      rec.System,
		ID:          rec.ID,
	})
	return nil
}

// PlaceAnnotation runs the placement flow for a captured pick point and
// persists the committed draft. On a write failure the draft is still
// returned so the caller can keep showing the unsaved annotation for the
// session; it is not retried automatically.
func (s *Service) PlaceAnnotation(ctx context.Context, patientID string, tooth int, system dental.System, point annotations.Point, author string) (*annotations.Annotation, error) {
	ctx, span := s.tracer.Start(ctx, "chart.place_annotation")
	defer span.End()

	placement := NewPlacement()
	placement.Arm()
	if _, err := placement.CapturePoint(patientID, tooth, system, point, author); err != nil {
		return nil, err
	}
	draft, err := placement.Commit()
	if err != nil {
		return nil, err
	}

	if err := s.annotations.Insert(ctx, draft); err != nil {
		span.RecordError(err)
		s.metrics.ObserveAnnotationOp("insert", "error")
		return draft, err
	}
	s.metrics.ObserveAnnotationOp("insert", "ok")
	s.invalidate(ctx, patientID)
	s.broadcast(patientID, Event{
		Type:        "annotation.added",
		PatientID:   patientID,
		ToothNumber: tooth,
		System:      system,
		ID:          draft.ID,
	})
	return draft, nil
}

// AnnotationsForTooth lists the stored annotations for one tooth.
func (s *Service) AnnotationsForTooth(ctx context.Context, patientID string, tooth int, system dental.System) ([]annotations.Annotation, error) {
	return s.annotations.ListForTooth(ctx, patientID, tooth, system)
}

// UpdateAnnotation applies edits from the detail dialog.
func (s *Service) UpdateAnnotation(ctx context.Context, patientID, id string, fields annotations.UpdateFields) (*annotations.Annotation, error) {
	ctx, span := s.tracer.Start(ctx, "chart.update_annotation")
	defer span.End()

	updated, err := s.annotations.Update(ctx, id, fields)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAnnotationOp("update", "error")
		return nil, err
	}
	s.metrics.ObserveAnnotationOp("update", "ok")
	s.invalidate(ctx, patientID)
	s.broadcast(patientID, Event{
		Type:        "annotation.updated",
		PatientID:   patientID,
		ToothNumber: updated.ToothNumber,
		System:      updated.System,
		ID:          updated.ID,
	})
	return updated, nil
}

// DeleteAnnotation removes remotely first; local/cached state is only
// touched after the remote delete succeeds, so a failed delete never hides
// an annotation that still exists.
func (s *Service) DeleteAnnotation(ctx context.Context, patientID, id string) error {
	ctx, span := s.tracer.Start(ctx, "chart.delete_annotation")
	defer span.End()

	if err := s.annotations.Delete(ctx, id); err != nil {
		span.RecordError(err)
		s.metrics.ObserveAnnotationOp("delete", "error")
		return err
	}
	s.metrics.ObserveAnnotationOp("delete", "ok")
	s.invalidate(ctx, patientID)
	s.broadcast(patientID, Event{Type: "annotation.deleted", PatientID: patientID, ID: id})
	return nil
}

func (s *Service) invalidate(ctx context.Context, patientID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, patientID); err != nil {
		s.logger.Warn("chart snapshot invalidate failed", "patient_id", patientID, "error", err)
	}
}

func (s *Service) broadcast(patientID string, event Event) {
	if s.live == nil {
		return
	}
	s.live.Broadcast(patientID, event)
}
