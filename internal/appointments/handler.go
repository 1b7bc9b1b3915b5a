package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for the schedule.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// CreateAppointment handles POST /appointments.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("appointment created",
		"id", appt.ID,
		"patient_id", appt.PatientID,
		"starts_at", appt.StartsAt,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// GetAppointment handles GET /appointments/{appointmentID}.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	appt, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrAppointmentNotFound) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get appointment", "error", err, "appointment_id", id)
		http.Error(w, "failed to get appointment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// ListPatientAppointments handles GET /patients/{patientID}/appointments.
func (h *Handler) ListPatientAppointments(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	appts, err := h.repo.ListByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "patient_id", patientID)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"appointments": appts,
		"count":        len(appts),
	})
}

// ListSchedule handles GET /appointments. It returns the book for a window
// starting at ?from (RFC 3339, default now) spanning ?window (default 24h).
func (h *Handler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	from := time.Now().UTC()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid from timestamp", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid window duration", http.StatusBadRequest)
			return
		}
		window = parsed
	}

	appts, err := h.repo.ListUpcoming(r.Context(), from, window)
	if err != nil {
		h.logger.Error("failed to list schedule", "error", err)
		http.Error(w, "failed to list schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"appointments": appts,
		"count":        len(appts),
		"from":         from,
		"window":       window.String(),
	})
}

// UpdateStatusRequest is the payload for a lifecycle move.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateAppointmentStatus handles PATCH /appointments/{appointmentID}/status.
func (h *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("failed to update appointment", "error", err, "appointment_id", id)
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}
