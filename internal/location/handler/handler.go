package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"practiceadmin/internal/location/models"
	"practiceadmin/internal/location/service"
	"practiceadmin/internal/tableview"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/httputil"
	"practiceadmin/pkg/requestcontext"
)

// Service defines the location operations exposed over HTTP.
type Service interface {
	View(ctx context.Context, q service.ViewQuery) (*service.ViewResult, error)
	Get(ctx context.Context, city, state string) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) (*models.Location, error)
	Delete(ctx context.Context, city, state string) error
	ToggleDocument(ctx context.Context, city, state, document string) (*models.Location, error)
}

// Handler serves the /locations endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a location Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the location routes. Authentication is applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Route("/locations", func(r chi.Router) {
		r.Get("/", h.handleView)
		r.Post("/", h.handleCreate)
		r.Get("/schema", h.handleSchema)
		r.Get("/{city}/{state}", h.handleGet)
		r.Put("/{city}/{state}", h.handleUpdate)
		r.Delete("/{city}/{state}", h.handleDelete)
		r.Post("/{city}/{state}/documents/{document}/toggle", h.handleToggleDocument)
	})
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	sort := tableview.ParseSortSpec(q.Get("sort"), q.Get("dir"))

	res, err := h.service.View(ctx, service.ViewQuery{
		Sort:    sort,
		Search:  q.Get("search"),
		GroupBy: tableview.GroupKey(q.Get("group")),
	})
	if err != nil {
		h.fail(ctx, w, "failed to build location view", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toViewResponse(res, sort))
}

func (h *Handler) handleSchema(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, schemaResponse{
		Fields:    models.FieldNames(),
		GroupKeys: models.GroupKeys,
		Documents: models.DocumentNames,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	city, state := keyParams(r)

	location, err := h.service.Get(ctx, city, state)
	if err != nil {
		h.fail(ctx, w, "failed to load location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocationResponse(location))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.Location](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	created, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(ctx, w, "failed to create location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLocationResponse(created))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	city, state := keyParams(r)

	// Normalize and Validate run in the service once the path identity is set.
	req, ok := httputil.Decode[models.Location](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	// The identity comes from the path. A body that names another location is
	// an attempt to rename, which is not allowed.
	if (req.City != "" && req.City != city) || (req.State != "" && req.State != state) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "city and state cannot be changed"))
		return
	}
	req.City, req.State = city, state

	updated, err := h.service.Update(ctx, req)
	if err != nil {
		h.fail(ctx, w, "failed to update location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocationResponse(updated))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	city, state := keyParams(r)

	if err := h.service.Delete(ctx, city, state); err != nil {
		h.fail(ctx, w, "failed to delete location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deleteResponse{Success: true})
}

func (h *Handler) handleToggleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	city, state := keyParams(r)

	location, err := h.service.ToggleDocument(ctx, city, state, pathParam(r, "document"))
	if err != nil {
		h.fail(ctx, w, "failed to toggle document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocationResponse(location))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, msg, attrs...)
	} else {
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func keyParams(r *http.Request) (string, string) {
	return pathParam(r, "city"), pathParam(r, "state")
}

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
