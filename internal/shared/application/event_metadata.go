package application

import (
	"github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
)

// SystemActor is recorded on events raised without an authenticated caller.
const SystemActor = "system"

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates command-scoped metadata. Every event raised by one
// command shares the correlation and causation ids.
func NewEventMetadata(actor string) domain.EventMetadata {
	if actor == "" {
		actor = SystemActor
	}
	return domain.EventMetadata{
		CorrelationID: uuid.New(),
		CausationID:   uuid.New(),
		Actor:         actor,
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
