package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by logs and metrics.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
)

type ctxKey int

const (
	correlationKey ctxKey = iota
	requestKey
)

func withID(ctx context.Context, key ctxKey, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, key, id)
}

func idFrom(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}

// WithCorrelationID tags ctx with the correlation ID shared by every log line
// and outbox message of one user operation. An empty id gets a fresh UUID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withID(ctx, correlationKey, id)
}

// CorrelationIDFromContext returns "" when ctx carries no correlation ID.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationKey)
}

// WithRequestID tags ctx with a per-invocation ID. An empty id gets a fresh
// UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withID(ctx, requestKey, id)
}

// RequestIDFromContext returns "" when ctx carries no request ID.
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestKey)
}

// NewRequestContext starts a CLI command or MCP tool call: a fresh request ID
// plus the caller's correlation ID, or a new one.
func NewRequestContext(ctx context.Context, parentCorrelationID string) context.Context {
	return WithCorrelationID(WithRequestID(ctx, ""), parentCorrelationID)
}
