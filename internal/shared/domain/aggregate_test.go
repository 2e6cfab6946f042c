package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type testAccount struct {
	domain.BaseAggregateRoot
	Holder string
}

func newTestAccount(holder string) *testAccount {
	return &testAccount{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		Holder:            holder,
	}
}

type testAccountOpened struct {
	domain.BaseEvent
}

func newTestAccountOpened(aggregateID uuid.UUID) *testAccountOpened {
	return &testAccountOpened{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Account", "test.account.opened"),
	}
}

func TestNewBaseAggregateRoot(t *testing.T) {
	agg := domain.NewBaseAggregateRoot()

	assert.NotEqual(t, uuid.Nil, agg.ID())
	assert.Equal(t, 0, agg.Version())
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_AddDomainEvent(t *testing.T) {
	agg := newTestAccount("Maria")
	event := newTestAccountOpened(agg.ID())

	agg.AddDomainEvent(event)

	events := agg.DomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, event.EventID(), events[0].EventID())
	assert.Equal(t, agg.ID(), events[0].AggregateID())
}

func TestBaseAggregateRoot_DomainEventsReturnsCopy(t *testing.T) {
	agg := newTestAccount("Maria")
	agg.AddDomainEvent(newTestAccountOpened(agg.ID()))

	events := agg.DomainEvents()
	events[0] = nil

	assert.NotNil(t, agg.DomainEvents()[0])
}

func TestBaseAggregateRoot_ClearDomainEvents(t *testing.T) {
	agg := newTestAccount("Maria")
	agg.AddDomainEvent(newTestAccountOpened(agg.ID()))
	agg.AddDomainEvent(newTestAccountOpened(agg.ID()))
	assert.Len(t, agg.DomainEvents(), 2)

	agg.ClearDomainEvents()

	assert.Empty(t, agg.DomainEvents())
}

func TestRehydrateBaseAggregateRoot(t *testing.T) {
	id := uuid.New()
	entity := domain.RehydrateBaseEntity(id, domain.AuditTrail{CreatedBy: "system"})

	agg := domain.RehydrateBaseAggregateRoot(entity, 7)

	assert.Equal(t, id, agg.ID())
	assert.Equal(t, 7, agg.Version())
	assert.Equal(t, "system", agg.CreatedBy())
	assert.Empty(t, agg.DomainEvents())

	agg.SetVersion(8)
	assert.Equal(t, 8, agg.Version())
}
