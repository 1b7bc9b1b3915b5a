package treatments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for treatments and billing.
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

// CreateTreatment handles POST /patients/{patientID}/treatments.
func (h *Handler) CreateTreatment(w http.ResponseWriter, r *http.Request) {
	var t Treatment
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t.PatientID = chi.URLParam(r, "patientID")

	if err := h.repo.CreateTreatment(r.Context(), &t); err != nil {
		h.logger.Error("failed to create treatment", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("treatment created",
		"id", t.ID,
		"patient_id", t.PatientID,
		"procedure_code", t.ProcedureCode,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

// ListTreatments handles GET /patients/{patientID}/treatments?status=.
func (h *Handler) ListTreatments(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	status := TreatmentStatus(r.URL.Query().Get("status"))
	if status != "" && !ValidTreatmentStatus(status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	list, err := h.repo.ListTreatmentsByPatient(r.Context(), patientID, status)
	if err != nil {
		h.logger.Error("failed to list treatments", "error", err, "patient_id", patientID)
		http.Error(w, "failed to list treatments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"treatments": list,
		"count":      len(list),
	})
}

// UpdateTreatmentStatusRequest is the payload for a lifecycle move.
type UpdateTreatmentStatusRequest struct {
	Status      TreatmentStatus `json:"status"`
	PerformedBy string          `json:"performed_by,omitempty"`
}

// UpdateTreatmentStatus handles PATCH /treatments/{treatmentID}/status.
func (h *Handler) UpdateTreatmentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "treatmentID")

	var req UpdateTreatmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.repo.UpdateTreatmentStatus(r.Context(), id, req.Status, req.PerformedBy)
	if errors.Is(err, ErrTreatmentNotFound) {
		http.Error(w, "treatment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update treatment", "error", err, "treatment_id", id)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// CreateInvoice handles POST /patients/{patientID}/invoices.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	inv.PatientID = chi.URLParam(r, "patientID")

	if err := h.repo.CreateInvoice(r.Context(), &inv); err != nil {
		h.logger.Error("failed to create invoice", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(inv)
}

// ListInvoices handles GET /patients/{patientID}/invoices.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	list, err := h.repo.ListInvoicesByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list invoices", "error", err, "patient_id", patientID)
		http.Error(w, "failed to list invoices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"invoices": list,
		"count":    len(list),
	})
}

// UpdateInvoiceStatusRequest is the payload for a billing move.
type UpdateInvoiceStatusRequest struct {
	Status InvoiceStatus `json:"status"`
}

// UpdateInvoiceStatus handles PATCH /invoices/{invoiceID}/status.
func (h *Handler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invoiceID")

	var req UpdateInvoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	inv, err := h.repo.UpdateInvoiceStatus(r.Context(), id, req.Status)
	if errors.Is(err, ErrInvoiceNotFound) {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update invoice", "error", err, "invoice_id", id)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}

// GetBalance handles GET /patients/{patientID}/balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	balance, err := h.repo.Balance(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to compute balance", "error", err, "patient_id", patientID)
		http.Error(w, "failed to compute balance", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(balance)
}
