package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lexron-admin/internal/middleware"
	"lexron-admin/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableOptions describes how a collection is exposed over /rest/v1
type TableOptions[T any] struct {
	// Name is the collection's path segment, e.g. "categories"
	Name string
	// ID returns a pointer to the record's id field
	ID func(*T) *string
	// ClientIDs lets callers choose the id of inserted records
	ClientIDs bool
}

// TableHandler serves list, insert, update and delete for one collection
type TableHandler[T any] struct {
	repo   repository.Table[T]
	opts   TableOptions[T]
	logger *zap.Logger
}

// NewTableHandler creates a new TableHandler
func NewTableHandler[T any](repo repository.Table[T], opts TableOptions[T], logger *zap.Logger) *TableHandler[T] {
	return &TableHandler[T]{
		repo:   repo,
		opts:   opts,
		logger: logger.With(zap.String("table", opts.Name)),
	}
}

// Name returns the collection name
func (h *TableHandler[T]) Name() string {
	return h.opts.Name
}

// Routes returns the collection's router, to be mounted under /rest/v1/{name}
func (h *TableHandler[T]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// isIDColumn reports whether column holds a UUID
func isIDColumn(column string) bool {
	return column == "id" || strings.HasSuffix(column, "_id")
}

// ParseListParams reads "order=<col>.asc|desc" and "<col>=eq.<value>"
// query parameters. ok is false when a filter can never match, such as a
// malformed UUID in an id column.
func ParseListParams(r *http.Request) (params repository.ListParams, ok bool) {
	query := r.URL.Query()
	params.Filters = map[string]string{}

	if order := query.Get("order"); order != "" {
		column, direction, _ := strings.Cut(order, ".")
		params.OrderBy = column
		params.SortOrder = repository.SortOrderAsc
		if strings.EqualFold(direction, "desc") {
			params.SortOrder = repository.SortOrderDesc
		}
	}

	for column, values := range query {
		if column == "order" || column == "select" || len(values) == 0 {
			continue
		}
		value, found := strings.CutPrefix(values[0], "eq.")
		if !found {
			continue
		}
		if isIDColumn(column) {
			if _, err := uuid.Parse(value); err != nil {
				return params, false
			}
		}
		params.Filters[column] = value
	}

	return params, true
}

// List handles GET /rest/v1/{table}
func (h *TableHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	params, ok := ParseListParams(r)
	if !ok {
		middleware.RespondWithJSON(w, http.StatusOK, []*T{})
		return
	}

	timing := middleware.StartTiming(r.Context(), "db", "select "+h.opts.Name)
	records, err := h.repo.List(r.Context(), params)
	timing.Stop()
	if err != nil {
		h.respondRepoError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, records)
}

// Create handles POST /rest/v1/{table} and answers with the stored row
func (h *TableHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	record := new(T)
	if !decodeOrReject(w, r, record, h.logger) {
		return
	}

	id := h.opts.ID(record)
	if !h.opts.ClientIDs {
		*id = ""
	} else if *id != "" {
		if _, err := uuid.Parse(*id); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "id must be a UUID")
			return
		}
	}

	timing := middleware.StartTiming(r.Context(), "db", "insert "+h.opts.Name)
	err := h.repo.Create(r.Context(), record)
	timing.Stop()
	if err != nil {
		h.respondRepoError(w, err)
		return
	}

	h.logger.Info("Record created", zap.String("id", *h.opts.ID(record)))
	middleware.RespondWithJSON(w, http.StatusCreated, record)
}

// Update handles PATCH /rest/v1/{table}/{id}. Fields absent from the body
// keep their stored values.
func (h *TableHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "record not found")
		return
	}

	timing := middleware.StartTiming(r.Context(), "db", "update "+h.opts.Name)
	defer timing.Stop()

	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(record); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	*h.opts.ID(record) = id

	if err := middleware.ValidateRequest(record); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	if err := h.repo.Update(r.Context(), record); err != nil {
		h.respondRepoError(w, err)
		return
	}

	h.logger.Info("Record updated", zap.String("id", id))
	middleware.RespondWithJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /rest/v1/{table}/{id}
func (h *TableHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "record not found")
		return
	}

	timing := middleware.StartTiming(r.Context(), "db", "delete "+h.opts.Name)
	err := h.repo.Delete(r.Context(), id)
	timing.Stop()
	if err != nil {
		h.respondRepoError(w, err)
		return
	}

	h.logger.Info("Record deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *TableHandler[T]) respondRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, repository.ErrStillReferenced):
		h.logger.Warn("Delete refused", zap.Error(err))
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrInvalidReference), errors.Is(err, repository.ErrCheckFailed):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Table operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
