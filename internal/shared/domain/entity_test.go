package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEntity(t *testing.T) {
	before := time.Now().UTC()
	entity := domain.NewBaseEntity()
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, entity.ID())
	require.False(t, entity.CreatedAt().Before(before))
	require.False(t, entity.CreatedAt().After(after))
	assert.Equal(t, entity.CreatedAt(), entity.UpdatedAt())
	assert.Empty(t, entity.CreatedBy())
}

func TestBaseEntity_Touch(t *testing.T) {
	entity := domain.NewBaseEntity()
	created := entity.CreatedAt()

	time.Sleep(time.Millisecond)
	entity.Touch()

	assert.True(t, entity.UpdatedAt().After(created))
	assert.Equal(t, created, entity.CreatedAt())
}

func TestBaseEntity_StampActor(t *testing.T) {
	entity := domain.NewBaseEntity()

	entity.StampActor("")
	assert.Empty(t, entity.CreatedBy())

	entity.StampActor("alice")
	entity.StampActor("bob")

	assert.Equal(t, "alice", entity.CreatedBy())
	assert.Equal(t, "bob", entity.UpdatedBy())
}

func TestRehydrateBaseEntity(t *testing.T) {
	id := uuid.New()
	audit := domain.AuditTrail{
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 2, 3, 4, 5, 0, time.UTC),
		CreatedBy: "alice",
		UpdatedBy: "bob",
	}

	entity := domain.RehydrateBaseEntity(id, audit)

	assert.Equal(t, id, entity.ID())
	assert.Equal(t, audit, entity.Audit())
}

func TestBaseEntity_Equals(t *testing.T) {
	id := uuid.New()
	entity1 := domain.NewBaseEntityWithID(id)
	entity2 := domain.NewBaseEntityWithID(id)
	entity3 := domain.NewBaseEntity()

	assert.True(t, entity1.Equals(&entity2))
	assert.False(t, entity1.Equals(&entity3))
	assert.False(t, entity1.Equals(nil))
}
