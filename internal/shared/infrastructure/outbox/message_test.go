package outbox_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emailChanged struct {
	domain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

func newEmailChanged() *emailChanged {
	id := uuid.New()
	return &emailChanged{
		BaseEvent: domain.NewBaseEvent(id, "User", "identity.user.email_changed"),
		UserID:    id,
		Email:     "ana@digibank.com.br",
	}
}

func TestNewMessage(t *testing.T) {
	event := newEmailChanged()
	event.SetMetadata(domain.EventMetadata{CorrelationID: uuid.New(), Actor: "admin"})

	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, event.AggregateID(), msg.AggregateID)
	assert.Equal(t, "User", msg.AggregateType)
	assert.Equal(t, "identity.user.email_changed", msg.RoutingKey)
	assert.Equal(t, "*outbox_test.emailChanged", msg.EventType)
	assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
	assert.JSONEq(t, `{"user_id":"`+event.UserID.String()+`","email":"ana@digibank.com.br"}`, string(msg.Payload))
	assert.False(t, msg.IsPublished())
	assert.False(t, msg.IsDead())
}

func TestNewMessages(t *testing.T) {
	msgs, err := outbox.NewMessages([]domain.DomainEvent{newEmailChanged(), newEmailChanged()})
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	msgs, err = outbox.NewMessages(nil)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessage_Envelope(t *testing.T) {
	event := newEmailChanged()
	meta := domain.EventMetadata{CorrelationID: uuid.New(), CausationID: uuid.New(), Actor: "ana"}
	event.SetMetadata(meta)
	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)

	env := msg.Envelope()
	assert.Equal(t, msg.EventID, env.EventID)
	assert.Equal(t, msg.RoutingKey, env.RoutingKey)
	assert.Equal(t, meta, env.Metadata)

	body, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"routing_key":"identity.user.email_changed"`)
}

func TestMessage_EnvelopeToleratesBadMetadata(t *testing.T) {
	msg := &outbox.Message{RoutingKey: "k", Metadata: json.RawMessage("nope"), CreatedAt: time.Now()}
	assert.Equal(t, domain.EventMetadata{}, msg.Envelope().Metadata)
}
