// Package eventbus moves domain events from the outbox to their consumers,
// either through RabbitMQ or synchronously inside the process.
package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
)

// Event is the envelope carried on the bus. Payload holds the domain event
// serialized as JSON.
type Event struct {
	EventID       uuid.UUID            `json:"event_id"`
	AggregateID   uuid.UUID            `json:"aggregate_id"`
	AggregateType string               `json:"aggregate_type"`
	RoutingKey    string               `json:"routing_key"`
	OccurredAt    time.Time            `json:"occurred_at"`
	Payload       json.RawMessage      `json:"payload"`
	Metadata      domain.EventMetadata `json:"metadata"`
}

// Handler processes the events published under its routing keys.
type Handler interface {
	RoutingKeys() []string
	Handle(ctx context.Context, event *Event) error
}

// Consumer delivers bus events to registered handlers.
type Consumer interface {
	// Start blocks until ctx is done or the consumer is closed.
	Start(ctx context.Context) error
	Subscribe(handler Handler)
	Close() error
}

// Publisher sends serialized envelopes to the bus.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

func decode(body []byte, routingKey string) (*Event, error) {
	event := &Event{}
	if err := json.Unmarshal(body, event); err != nil {
		return nil, err
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return event, nil
}
