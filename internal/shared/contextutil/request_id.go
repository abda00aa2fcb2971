package contextutil

import "context"

// Unexported type keeps the context key collision-safe
type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID pulls the request ID from the context, empty when the
// middleware never ran (background workers, tests).
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithRequestID injects an ID into the context (also handy in tests)
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetKey exposes the raw key for middleware that needs it
func GetKey() string {
	return string(requestIDKey)
}
