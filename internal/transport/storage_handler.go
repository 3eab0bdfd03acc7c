package transport

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"time"

	"lexron-admin/internal/middleware"
	"lexron-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxUploadSize bounds the body of a storage upload
const MaxUploadSize = 5 << 20

// StorageHandler serves uploads and public downloads of stored objects
type StorageHandler struct {
	storage service.StorageService
	logger  *zap.Logger
}

// NewStorageHandler creates a new StorageHandler
func NewStorageHandler(storage service.StorageService, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{storage: storage, logger: logger}
}

// RegisterRoutes registers the storage routes. guard protects uploads.
func (h *StorageHandler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/storage/v1/object", func(r chi.Router) {
		r.Get("/public/{bucket}/*", h.Download)
		r.With(guard).Post("/{bucket}/*", h.Upload)
	})
}

// Upload handles POST /storage/v1/object/{bucket}/{path}
func (h *StorageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objectPath := chi.URLParam(r, "*")
	upsert, _ := strconv.ParseBool(r.Header.Get(middleware.UpsertHeader))

	body := http.MaxBytesReader(w, r.Body, MaxUploadSize)
	obj, err := h.storage.Upload(r.Context(), bucket, objectPath, body, upsert)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "The object exceeded the maximum allowed size")
		case errors.Is(err, service.ErrInvalidObjectPath):
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid key: "+objectPath)
		case errors.Is(err, service.ErrObjectExists):
			middleware.RespondWithError(w, http.StatusConflict, "The resource already exists")
		default:
			h.logger.Error("Upload failed", zap.String("bucket", bucket), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store object")
		}
		return
	}

	h.logger.Info("Object stored",
		zap.String("key", obj.Key),
		zap.Int64("size", obj.Size),
		zap.Bool("upsert", upsert),
	)
	middleware.RespondWithJSON(w, http.StatusOK, obj)
}

// Download handles GET /storage/v1/object/public/{bucket}/{path}
func (h *StorageHandler) Download(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objectPath := chi.URLParam(r, "*")

	f, err := h.storage.Open(bucket, objectPath)
	if err != nil {
		if errors.Is(err, service.ErrObjectNotFound) || errors.Is(err, service.ErrInvalidObjectPath) {
			middleware.RespondWithError(w, http.StatusNotFound, "Object not found")
			return
		}
		h.logger.Error("Download failed", zap.String("bucket", bucket), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read object")
		return
	}
	defer f.Close()

	modTime := time.Time{}
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, path.Base(objectPath), modTime, f)
}
