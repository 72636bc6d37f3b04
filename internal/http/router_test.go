package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceadmin/internal/platform/metrics"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/httputil"
	"practiceadmin/pkg/requestcontext"
	"practiceadmin/pkg/testutil"
)

type tokenAuth struct{}

func (tokenAuth) Authenticate(_ context.Context, token string) (requestcontext.User, requestcontext.Session, error) {
	if token != "good" {
		return requestcontext.User{}, requestcontext.Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return testutil.DefaultPrincipal, requestcontext.Session{TokenID: "jti"}, nil
}

type echoRoutes struct{}

func (echoRoutes) RegisterPublic(r chi.Router) {
	r.Post("/auth/sign-in", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": "good"})
	})
}

func (echoRoutes) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		u, _ := requestcontext.Principal(r.Context())
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"email":      u.Email,
			"request_id": requestcontext.RequestID(r.Context()),
		})
	})
}

func newTestRouter(checks map[string]HealthCheck) http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(Config{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:        metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Authenticator:  tokenAuth{},
		HealthChecks:   checks,
		Public:         []PublicRegistrar{echoRoutes{}},
		Protected:      []Registrar{echoRoutes{}},
	})
}

func TestRouterAuthBoundary(t *testing.T) {
	r := newTestRouter(nil)

	t.Run("public routes need no token", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-in", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("protected routes reject anonymous callers", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/whoami", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("protected routes see the principal and request id", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer good")
		req.Header.Set("X-Request-ID", "req-42")
		rr := testutil.DoRequest(r, req)
		require.Equal(t, http.StatusOK, rr.Code)

		body := testutil.UnmarshalResponse[map[string]string](t, rr)
		assert.Equal(t, "user@example.com", (*body)["email"])
		assert.Equal(t, "req-42", (*body)["request_id"])
	})

	t.Run("non-JSON bodies are rejected", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/auth/sign-in", "email=x")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}

func TestHealthAndMetrics(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := newTestRouter(map[string]HealthCheck{"redis": func(context.Context) error { return nil }})
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		body := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "ok", body.Checks["redis"])
	})

	t.Run("degraded", func(t *testing.T) {
		r := newTestRouter(map[string]HealthCheck{"database": func(context.Context) error { return errors.New("connection refused") }})
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		body := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "connection refused", body.Checks["database"])
	})

	t.Run("metrics endpoint exposes request latency", func(t *testing.T) {
		r := newTestRouter(nil)
		testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "practiceadmin_http_request_duration_seconds")
	})
}
