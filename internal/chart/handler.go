package chart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/dental"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// Handler exposes the chart endpoints: the rendered view, tooth record
// saves, and the annotation lifecycle.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// GET /api/patients/{patientID}/chart?system=fdi&selected=14
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	if patientID == "" {
		http.Error(w, "missing patient id", http.StatusBadRequest)
		return
	}
	system := dental.ParseSystem(r.URL.Query().Get("system"))
	selected, _ := strconv.Atoi(r.URL.Query().Get("selected"))

	state, err := h.service.LoadForPatient(r.Context(), patientID, system)
	view := BuildView(state, selected)
	if err != nil {
		// Degraded render: all teeth sound, no annotations, chart stays up.
		h.logger.Error("chart load failed, serving empty chart", "patient_id", patientID, "error", err)
		view.Degraded = true
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// PUT /api/patients/{patientID}/chart/teeth/{tooth}
func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	tooth, err := strconv.Atoi(chi.URLParam(r, "tooth"))
	if patientID == "" || err != nil {
		http.Error(w, "missing patient id or tooth number", http.StatusBadRequest)
		return
	}

	var rec records.ToothRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	rec.PatientID = patientID
	rec.ToothNumber = tooth
	if rec.System == "" {
		rec.System = dental.ParseSystem(r.URL.Query().Get("system"))
	}

	if err := rec.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.UpsertRecord(r.Context(), &rec); err != nil {
		h.logger.Error("tooth record save failed", "patient_id", patientID, "tooth", tooth, "error", err)
		http.Error(w, "failed to save tooth record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&rec)
}

type placeRequest struct {
	System dental.System     `json:"numberingSystem"`
	Point  annotations.Point `json:"point"`
	Author string            `json:"author"`
}

// POST /api/patients/{patientID}/chart/teeth/{tooth}/annotations
func (h *Handler) PlaceAnnotation(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	tooth, err := strconv.Atoi(chi.URLParam(r, "tooth"))
	if patientID == "" || err != nil {
		http.Error(w, "missing patient id or tooth number", http.StatusBadRequest)
		return
	}

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.System == "" {
		req.System = dental.ParseSystem(r.URL.Query().Get("system"))
	}

	placed, err := h.service.PlaceAnnotation(r.Context(), patientID, tooth, req.System, req.Point, req.Author)
	if err != nil {
		if placed != nil {
			// The draft exists locally but did not persist; hand it back so
			// the client can keep showing it and let the user retry.
			h.logger.Error("annotation persist failed", "patient_id", patientID, "tooth", tooth, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{"annotation": placed, "persisted": false})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(placed)
}

// GET /api/patients/{patientID}/chart/teeth/{tooth}/annotations
func (h *Handler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	tooth, err := strconv.Atoi(chi.URLParam(r, "tooth"))
	if patientID == "" || err != nil {
		http.Error(w, "missing patient id or tooth number", http.StatusBadRequest)
		return
	}
	system := dental.ParseSystem(r.URL.Query().Get("system"))

	list, err := h.service.AnnotationsForTooth(r.Context(), patientID, tooth, system)
	if err != nil {
		h.logger.Error("list annotations failed", "patient_id", patientID, "tooth", tooth, "error", err)
		http.Error(w, "failed to load annotations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"annotations": list})
}

// PATCH /api/patients/{patientID}/chart/annotations/{id}
func (h *Handler) UpdateAnnotation(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if patientID == "" || id == "" {
		http.Error(w, "missing patient or annotation id", http.StatusBadRequest)
		return
	}

	var fields annotations.UpdateFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := fields.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateAnnotation(r.Context(), patientID, id, fields)
	if errors.Is(err, annotations.ErrAnnotationNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("annotation update failed", "annotation_id", id, "error", err)
		http.Error(w, "failed to update annotation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DELETE /api/patients/{patientID}/chart/annotations/{id}
func (h *Handler) DeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if patientID == "" || id == "" {
		http.Error(w, "missing patient or annotation id", http.StatusBadRequest)
		return
	}

	err := h.service.DeleteAnnotation(r.Context(), patientID, id)
	if errors.Is(err, annotations.ErrAnnotationNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("annotation delete failed", "annotation_id", id, "error", err)
		http.Error(w, "failed to delete annotation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}
