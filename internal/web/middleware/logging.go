package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/studentdesk/internal/middleware"
)

// RequestIDFrom returns the id assigned by the Logging chain
func RequestIDFrom(ctx context.Context) string {
	return middleware.RequestIDFrom(ctx)
}

// Logging creates logging middleware for the web interface.
// Each request is tagged with a request id before it is logged.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	requestID := middleware.RequestID()
	logging := middleware.Logging(logger)
	return func(next http.Handler) http.Handler {
		return requestID(logging(next))
	}
}
