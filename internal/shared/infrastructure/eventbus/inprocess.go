package eventbus

import (
	"context"
	"log/slog"
	"time"
)

// InProcessBus delivers published envelopes synchronously to local handlers.
// It is used in local mode where no broker is configured. Handler failures
// are logged and never fail the publish.
type InProcessBus struct {
	registry *Registry
	logger   *slog.Logger
}

func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		registry: NewRegistry(logger),
		logger:   logger,
	}
}

func (b *InProcessBus) Subscribe(handler Handler) {
	b.registry.Subscribe(handler)
}

func (b *InProcessBus) Publish(ctx context.Context, routingKey string, body []byte) error {
	event, err := decode(body, routingKey)
	if err != nil {
		b.logger.Error("dropping undecodable event", "routing_key", routingKey, "error", err)
		return nil
	}

	start := time.Now()
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", routingKey,
			"event_id", event.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}

	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Start blocks until ctx is done. Delivery happens inside Publish.
func (b *InProcessBus) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (b *InProcessBus) Close() error { return nil }

// NoopPublisher drops every event. It backs commands run without a worker.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	p.logger.Debug("noop publish", "routing_key", routingKey, "size", len(body))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
