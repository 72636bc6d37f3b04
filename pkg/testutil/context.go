package testutil

import (
	"net/http"

	"practiceadmin/pkg/requestcontext"
)

// DefaultPrincipal matches the hardcoded sign-in identity.
var DefaultPrincipal = requestcontext.User{Email: "user@example.com", Name: "John Doe"}

// WithPrincipal attaches an authenticated user to the request, as RequireAuth would.
func WithPrincipal(req *http.Request, u requestcontext.User) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), u))
}
