package logx

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id between the CLI and the report
// service.
const RequestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

func IsUUIDv4(value string) bool {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return false
	}
	return parsed.Version() == 4
}

// NormalizeRequestID keeps a well-formed v4 id and replaces anything else
// with a fresh one.
func NormalizeRequestID(value string) string {
	if IsUUIDv4(value) {
		return value
	}
	return uuid.NewString()
}

// WithRequestID stores requestID in ctx. Every report service call made
// with the returned context sends it and every log line written through
// Logger carries it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// EnsureRequestID returns ctx unchanged when it already carries a request
// id, or a child context with a new one. One user action gets one id.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

func RequestIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		return requestID
	}
	return RequestIDFromContext(c.Request.Context())
}

// Logger tags base with the request id stored in ctx. A nil base means
// slog.Default.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		return base.With("request_id", requestID)
	}
	return base
}
