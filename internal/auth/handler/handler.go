package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"practiceadmin/internal/auth/service"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/httputil"
	"practiceadmin/pkg/requestcontext"
)

type Service interface {
	SignIn(ctx context.Context, email, password string) (*service.Session, error)
	SignOut(ctx context.Context, jti string, expiresAt time.Time) error
	CurrentUser(ctx context.Context) (requestcontext.User, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// RegisterPublic mounts the routes reachable without a token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/sign-in", h.handleSignIn)
}

// Register mounts the routes that need RequireAuth in front of them.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/sign-out", h.handleSignOut)
	r.Get("/auth/me", h.handleMe)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *signInRequest) Normalize() {}

func (r *signInRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[signInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	session, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := requestcontext.SessionOf(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no active session"))
		return
	}
	if err := h.service.SignOut(ctx, session.TokenID, session.ExpiresAt); err != nil {
		h.logger.ErrorContext(ctx, "failed to sign out",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
