package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"practiceadmin/internal/tableview"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/httputil"
	"practiceadmin/pkg/requestcontext"
)

type Service interface {
	GroupBy(ctx context.Context, principal, scope string) (tableview.GroupKey, error)
	SetGroupBy(ctx context.Context, principal, scope string, key tableview.GroupKey) error
	Options(scope string) ([]tableview.GroupKey, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/preferences/{scope}/group-by", h.handleGet)
	r.Put("/preferences/{scope}/group-by", h.handlePut)
}

type groupByResponse struct {
	Scope   string               `json:"scope"`
	GroupBy tableview.GroupKey   `json:"group_by"`
	Options []tableview.GroupKey `json:"options"`
}

type groupByRequest struct {
	GroupBy tableview.GroupKey `json:"group_by"`
}

func (r *groupByRequest) Normalize() {}

func (r *groupByRequest) Validate() error {
	if r.GroupBy == "" {
		return dErrors.New(dErrors.CodeValidation, "group_by is required")
	}
	return nil
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	scope := chi.URLParam(r, "scope")

	key, err := h.service.GroupBy(ctx, principal.Email, scope)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read preference",
			"request_id", requestcontext.RequestID(ctx),
			"scope", scope,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	options, _ := h.service.Options(scope)
	httputil.WriteJSON(w, http.StatusOK, groupByResponse{Scope: scope, GroupBy: key, Options: options})
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	scope := chi.URLParam(r, "scope")

	req, ok := httputil.DecodeAndPrepare[groupByRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.SetGroupBy(ctx, principal.Email, scope, req.GroupBy); err != nil {
		h.logger.WarnContext(ctx, "failed to save preference",
			"request_id", requestID,
			"scope", scope,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	options, _ := h.service.Options(scope)
	httputil.WriteJSON(w, http.StatusOK, groupByResponse{Scope: scope, GroupBy: req.GroupBy, Options: options})
}
