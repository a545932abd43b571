package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// ContextKeyRequestID is the context key for the per-request ID
const ContextKeyRequestID contextKey = "request_id"

// HeaderRequestID carries a caller-supplied request ID
const HeaderRequestID = "X-Request-ID"

// RequestIDToContext adds the request ID to the context
func RequestIDToContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// RequestIDFromContext retrieves the request ID from the context
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// requestIDMiddleware reuses the caller's X-Request-ID or generates one,
// and echoes it on the response
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(RequestIDToContext(r.Context(), id)))
	})
}
