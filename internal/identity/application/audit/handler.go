// Package audit writes a structured log line for every user change.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/eventbus"
)

// changeSummary is the subset of user event payloads the audit trail reads.
type changeSummary struct {
	Field  string   `json:"field"`
	Fields []string `json:"fields"`
	Active *bool    `json:"active"`
}

// Handler logs user events.
type Handler struct {
	logger *slog.Logger
}

var _ eventbus.Handler = (*Handler)(nil)

// NewHandler creates an audit handler.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger.With("component", "audit")}
}

// RoutingKeys subscribes to every user routing key.
func (h *Handler) RoutingKeys() []string {
	return domain.RoutingKeys()
}

// Handle writes one log line naming the user and the changed fields. A
// payload that cannot be read is still audited without field details.
func (h *Handler) Handle(ctx context.Context, event *eventbus.Event) error {
	attrs := []any{
		"routing_key", event.RoutingKey,
		"user_id", event.AggregateID,
		"event_id", event.EventID,
		"actor", event.Metadata.Actor,
		"correlation_id", event.Metadata.CorrelationID,
		"occurred_at", event.OccurredAt,
	}

	var summary changeSummary
	if err := json.Unmarshal(event.Payload, &summary); err != nil {
		h.logger.WarnContext(ctx, "unreadable user event payload", append(attrs, "error", err)...)
	}
	switch {
	case summary.Field != "":
		attrs = append(attrs, "fields", []string{summary.Field})
	case len(summary.Fields) > 0:
		attrs = append(attrs, "fields", summary.Fields)
	case event.RoutingKey == domain.RoutingKeyUserLoggedIn:
		attrs = append(attrs, "fields", []string{domain.FieldLastLogin})
	case summary.Active != nil:
		attrs = append(attrs, "fields", []string{domain.FieldActive})
	}

	h.logger.InfoContext(ctx, "user changed", attrs...)
	return nil
}
