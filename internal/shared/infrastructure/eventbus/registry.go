package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry routes events to the handlers subscribed to their routing key.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe adds handler under each of its routing keys.
func (r *Registry) Subscribe(handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range handler.RoutingKeys() {
		r.handlers[key] = append(r.handlers[key], handler)
		r.logger.Debug("handler subscribed", "routing_key", key)
	}
}

// Handlers returns the handlers subscribed to key.
func (r *Registry) Handlers(key string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Handler(nil), r.handlers[key]...)
}

// RoutingKeys returns every key with at least one handler, sorted.
func (r *Registry) RoutingKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.handlers))
	for key := range r.handlers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Dispatch runs every handler for the event. A failing handler does not stop
// the others; all failures are joined into the returned error.
func (r *Registry) Dispatch(ctx context.Context, event *Event) error {
	handlers := r.Handlers(event.RoutingKey)
	if len(handlers) == 0 {
		r.logger.Debug("no handlers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			r.logger.Error("handler failed",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%T: %w", h, err))
		}
	}
	return errors.Join(errs...)
}
