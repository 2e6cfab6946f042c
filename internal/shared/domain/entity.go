package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity represents a domain entity with identity.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Equals(other Entity) bool
}

// BaseEntity carries identity and the audit trail shared by every entity.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	createdBy string
	updatedBy string
}

// NewBaseEntity creates a new entity with generated ID and current timestamps.
func NewBaseEntity() BaseEntity {
	return NewBaseEntityWithID(uuid.New())
}

// NewBaseEntityWithID creates a new entity with a specific ID.
func NewBaseEntityWithID(id uuid.UUID) BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		id:        id,
		createdAt: now,
		updatedAt: now,
	}
}

// AuditTrail is the persisted audit state of an entity.
type AuditTrail struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}

// RehydrateBaseEntity recreates an entity from persisted state.
func RehydrateBaseEntity(id uuid.UUID, audit AuditTrail) BaseEntity {
	return BaseEntity{
		id:        id,
		createdAt: audit.CreatedAt,
		updatedAt: audit.UpdatedAt,
		createdBy: audit.CreatedBy,
		updatedBy: audit.UpdatedBy,
	}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }
func (e BaseEntity) CreatedBy() string    { return e.createdBy }
func (e BaseEntity) UpdatedBy() string    { return e.updatedBy }

// Audit returns the audit trail for persistence.
func (e BaseEntity) Audit() AuditTrail {
	return AuditTrail{
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
		CreatedBy: e.createdBy,
		UpdatedBy: e.updatedBy,
	}
}

// Touch updates the updatedAt timestamp.
func (e *BaseEntity) Touch() {
	e.updatedAt = time.Now().UTC()
}

// StampActor records who performed the latest change. The first stamp also
// becomes the creator.
func (e *BaseEntity) StampActor(actor string) {
	if actor == "" {
		return
	}
	if e.createdBy == "" {
		e.createdBy = actor
	}
	e.updatedBy = actor
}

// Equals checks if two entities have the same identity.
func (e BaseEntity) Equals(other Entity) bool {
	if other == nil {
		return false
	}
	return e.id == other.ID()
}
