// Package httpserver builds the *http.Server used by cmd/server.
package httpserver

import (
	"net/http"
	"time"
)

const writeTimeoutMargin = 5 * time.Second

// New returns a server whose write deadline outlives the per-request timeout,
// so the timeout middleware can still write its JSON error.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + writeTimeoutMargin,
		IdleTimeout:       60 * time.Second,
	}
}
