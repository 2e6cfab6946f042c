package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages. Writes honor the unit of work bound
// to the context.
type Repository interface {
	SaveBatch(ctx context.Context, msgs []*Message) error
	// GetUnpublished returns messages that are neither published nor dead
	// and whose retry time has come, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error
	// DeleteOld removes published messages older than the retention window.
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
	// CountPending reports how many messages are still waiting.
	CountPending(ctx context.Context) (int64, error)
}
