package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/httputil"
	"practiceadmin/pkg/requestcontext"
)

// TokenAuthenticator validates a bearer token and resolves its principal.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (requestcontext.User, requestcontext.Session, error)
}

// RequireAuth rejects requests without a valid bearer token and injects the
// principal and session into the request context.
func RequireAuth(auth TokenAuthenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			user, session, err := auth.Authenticate(ctx, strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					err = dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
				}
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, user)
			ctx = requestcontext.WithSession(ctx, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
