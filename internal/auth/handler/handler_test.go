package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"practiceadmin/internal/auth/service"
	"practiceadmin/internal/auth/store/revocation"
	jwttoken "practiceadmin/internal/jwt_token"
	"practiceadmin/internal/platform/middleware"
	"practiceadmin/pkg/requestcontext"
	"practiceadmin/pkg/testutil"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(
		service.Credential{Email: "user@example.com", Name: "John Doe", Password: "password"},
		jwttoken.NewJWTService("test-key", "practiceadmin-test"),
		revocation.NewInMemoryTRL(),
		service.WithBcryptCost(bcrypt.MinCost),
		service.WithLogger(logger),
	)
	require.NoError(t, err)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(svc, logger))
		h.Register(r)
	})
	return r
}

type sessionResponse struct {
	Token     string              `json:"token"`
	TokenType string              `json:"token_type"`
	User      requestcontext.User `json:"user"`
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestSessionLifecycle(t *testing.T) {
	r := newRouter(t)

	var token string
	testutil.Given(t, "the configured credential", func(t *testing.T) {
		testutil.When(t, "signing in", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-in", map[string]string{
				"email": "user@example.com", "password": "password",
			}))
			require.Equal(t, http.StatusOK, rr.Code)
			body := testutil.UnmarshalResponse[sessionResponse](t, rr)

			testutil.Then(t, "a bearer token for John Doe is returned", func(t *testing.T) {
				assert.Equal(t, "Bearer", body.TokenType)
				assert.Equal(t, "John Doe", body.User.Name)
				require.NotEmpty(t, body.Token)
			})
			token = body.Token
		})
	})
	require.NotEmpty(t, token)

	t.Run("me returns the principal", func(t *testing.T) {
		rr := testutil.DoRequest(r, withBearer(testutil.NewJSONRequest(t, http.MethodGet, "/auth/me", nil), token))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user@example.com", testutil.UnmarshalResponse[requestcontext.User](t, rr).Email)
	})

	t.Run("sign-out revokes the token", func(t *testing.T) {
		rr := testutil.DoRequest(r, withBearer(testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-out", nil), token))
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = testutil.DoRequest(r, withBearer(testutil.NewJSONRequest(t, http.MethodGet, "/auth/me", nil), token))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}

func TestSignInErrors(t *testing.T) {
	r := newRouter(t)

	t.Run("wrong password", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-in", map[string]string{
			"email": "user@example.com", "password": "nope",
		}))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-in", map[string]string{"email": "user@example.com"}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, "/auth/sign-in", "{"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/auth/me", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}
