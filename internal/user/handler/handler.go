package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"practiceadmin/internal/tableview"
	"practiceadmin/internal/user/models"
	"practiceadmin/internal/user/service"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/httputil"
	"practiceadmin/pkg/requestcontext"
)

// Service defines the user operations exposed over HTTP.
type Service interface {
	View(ctx context.Context, q service.ViewQuery) (*service.ViewResult, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the /users routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.handleView)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

type groupResponse struct {
	Label string         `json:"label"`
	Users []*models.User `json:"users"`
}

type viewResponse struct {
	Groups  []groupResponse     `json:"groups"`
	GroupBy tableview.GroupKey  `json:"group_by"`
	Sort    *tableview.SortSpec `json:"sort,omitempty"`
	Total   int                 `json:"total"`
	Matched int                 `json:"matched"`
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
		h.fail(ctx, w, "failed to build user view", err)
		return
	}

	groups := make([]groupResponse, 0, len(res.View))
	for _, g := range res.View {
		groups = append(groups, groupResponse{Label: g.Label, Users: g.Records})
	}
	httputil.WriteJSON(w, http.StatusOK, viewResponse{
		Groups:  groups,
		GroupBy: res.GroupBy,
		Sort:    sort,
		Total:   res.Total,
		Matched: res.View.Len(),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "failed to load user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CreateUserRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	user, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(ctx, w, "failed to create user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req models.User
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.ID != "" && req.ID != id {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "id cannot be changed"))
		return
	}
	req.ID = id

	user, err := h.service.Update(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "failed to update user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.fail(ctx, w, "failed to delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) || !isDomain(err) {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	}
	httputil.WriteError(w, err)
}

func isDomain(err error) bool {
	_, ok := dErrors.As(err)
	return ok
}
