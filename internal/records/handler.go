package records

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// Handler exposes tooth record endpoints.
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

// GET /api/patients/{patientID}/teeth
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	if patientID == "" {
		http.Error(w, "missing patient id", http.StatusBadRequest)
		return
	}

	recs, err := h.repo.ListByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("list tooth records failed", "patient_id", patientID, "error", err)
		http.Error(w, "failed to load tooth records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"records": recs})
}

// GET /api/patients/{patientID}/teeth/{tooth}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientID"))
	tooth, err := strconv.Atoi(chi.URLParam(r, "tooth"))
	if patientID == "" || err != nil {
		http.Error(w, "missing patient id or tooth number", http.StatusBadRequest)
		return
	}
	system := dental.ParseSystem(r.URL.Query().Get("system"))

	rec, err := h.repo.Get(r.Context(), patientID, tooth, system)
	if err == ErrRecordNotFound {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("get tooth record failed", "patient_id", patientID, "tooth", tooth, "error", err)
		http.Error(w, "failed to load tooth record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

