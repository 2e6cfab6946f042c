package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer tracks the duration of one operation.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   *Metrics
}

// StartTimer creates a new timer for the given operation.
func StartTimer(operation string) *Timer {
	return &Timer{
		operation: operation,
		start:     time.Now(),
	}
}

// WithLogger logs the outcome when the timer stops.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithMetrics records the outcome on the operation histogram.
func (t *Timer) WithMetrics(metrics *Metrics) *Timer {
	t.metrics = metrics
	return t
}

// Stop records the duration and outcome of the operation.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	duration := time.Since(t.start)

	if t.logger != nil {
		if err != nil {
			t.logger.WarnContext(ctx, "operation failed",
				OperationKey, t.operation,
				DurationKey, duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			t.logger.DebugContext(ctx, "operation completed",
				OperationKey, t.operation,
				DurationKey, duration.Milliseconds(),
			)
		}
	}

	t.metrics.ObserveOperation(t.operation, duration, err)
	return duration
}

// TimeOperationResult times fn and records its outcome.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics *Metrics, operation string, fn func() (T, error)) (T, error) {
	timer := StartTimer(operation).
		WithLogger(logger).
		WithMetrics(metrics)

	result, err := fn()
	timer.Stop(ctx, err)
	return result, err
}
