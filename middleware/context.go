package middleware

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestIDFromContext returns the request id assigned by the RequestID
// middleware, or the empty string outside an HTTP request (CLI paths).
func RequestIDFromContext(ctx context.Context) string {
	return chimiddleware.GetReqID(ctx)
}
