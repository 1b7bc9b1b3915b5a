package assets

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

// Handler serves tooth model meshes and their metadata.
type Handler struct {
	repo   *Repository
	store  *Store
	logger *slog.Logger
}

func NewHandler(repo *Repository, store *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{repo: repo, store: store, logger: logger}
}

// ListModels returns metadata for every registered mesh.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list tooth models", "error", err)
		http.Error(w, "failed to list models", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"models": models})
}

// GetToothModel streams the mesh for a Universal tooth number. The tooth is
// classified to its anatomical type and the newest mesh for that type wins.
func (h *Handler) GetToothModel(w http.ResponseWriter, r *http.Request) {
	tooth, err := strconv.Atoi(chi.URLParam(r, "toothNumber"))
	if err != nil || !dental.ValidUniversal(tooth) {
		http.Error(w, "invalid tooth number", http.StatusBadRequest)
		return
	}
	variant := r.URL.Query().Get("variant")

	meta, err := h.repo.Active(r.Context(), dental.TypeOf(tooth), variant)
	if errors.Is(err, ErrModelNotFound) {
		http.Error(w, "no model for tooth", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("resolve tooth model", "tooth", tooth, "error", err)
		http.Error(w, "failed to resolve model", http.StatusInternalServerError)
		return
	}

	mesh, err := h.store.FetchModel(r.Context(), meta.S3Key)
	if errors.Is(err, ErrModelNotFound) {
		h.logger.Warn("model metadata points at missing object", "s3_key", meta.S3Key)
		http.Error(w, "no model for tooth", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("fetch tooth model", "s3_key", meta.S3Key, "error", err)
		http.Error(w, "failed to fetch model", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "model/gltf-binary")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(mesh)
}

// UploadModel accepts a mesh body, stores it in S3 and registers metadata.
func (h *Handler) UploadModel(w http.ResponseWriter, r *http.Request) {
	toothType := dental.ToothType(chi.URLParam(r, "toothType"))
	if !dental.ValidToothType(toothType) {
		http.Error(w, "invalid tooth type", http.StatusBadRequest)
		return
	}
	variant := r.URL.Query().Get("variant")
	version, _ := strconv.Atoi(r.URL.Query().Get("version"))
	if version <= 0 {
		version = 1
	}

	mesh, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(mesh) == 0 {
		http.Error(w, "empty mesh", http.StatusBadRequest)
		return
	}

	key, err := h.store.UploadModel(r.Context(), toothType, variant, version, mesh)
	if err != nil {
		h.logger.Error("upload tooth model", "tooth_type", string(toothType), "error", err)
		http.Error(w, "failed to upload model", http.StatusInternalServerError)
		return
	}

	meta := &ToothModel{
		ToothType: toothType,
		Variant:   variant,
		Version:   version,
		S3Key:     key,
		SizeBytes: int64(len(mesh)),
	}
	if err := h.repo.Insert(r.Context(), meta); err != nil {
		h.logger.Error("register tooth model", "s3_key", key, "error", err)
		http.Error(w, "failed to register model", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(meta)
}
