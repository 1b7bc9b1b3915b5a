package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for the patient registry.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// CreatePatient handles POST /patients.
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create patient", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("patient created", "id", patient.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patient)
}

// GetPatient handles GET /patients/{patientID}.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")

	patient, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrPatientNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get patient", "error", err, "patient_id", id)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

// UpdatePatient handles PATCH /patients/{patientID}.
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.repo.Update(r.Context(), id, &req)
	if errors.Is(err, ErrPatientNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update patient", "error", err, "patient_id", id)
		http.Error(w, "failed to update patient", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

// ListPatientsResponse is the response for listing patients.
type ListPatientsResponse struct {
	Patients []*Patient `json:"patients"`
	Count    int        `json:"count"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
}

// ListPatients handles GET /patients with search and paging.
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	filter := ListPatientsFilter{Limit: 50}

	filter.Search = r.URL.Query().Get("q")
	filter.IncludeArchived = r.URL.Query().Get("include_archived") == "true"
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	result, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListPatientsResponse{
		Patients: result,
		Count:    len(result),
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	})
}
