package outbox

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const table = "outbox"

var columns = []string{
	"id", "event_id", "aggregate_type", "aggregate_id", "event_type", "routing_key",
	"payload", "metadata", "created_at", "published_at", "retry_count", "last_error",
	"next_retry_at", "dead_lettered_at", "dead_letter_reason",
}

// SQLRepository implements Repository for PostgreSQL and SQLite. Queries are
// built with squirrel using the connection's placeholder format.
type SQLRepository struct {
	conn database.Connection
	sb   sq.StatementBuilderType
	now  func() time.Time
}

func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{
		conn: conn,
		sb:   conn.Driver().Builder(),
		now:  time.Now,
	}
}

func (r *SQLRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *SQLRepository) driver() database.Driver {
	return r.conn.Driver()
}

// SaveBatch inserts every message and records the generated ids.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		query, args, err := r.sb.Insert(table).
			Columns("event_id", "aggregate_type", "aggregate_id", "event_type", "routing_key", "payload", "metadata", "created_at").
			Values(
				msg.EventID.String(),
				msg.AggregateType,
				msg.AggregateID.String(),
				msg.EventType,
				msg.RoutingKey,
				string(msg.Payload),
				metadataOrEmpty(msg.Metadata),
				r.driver().Time(msg.CreatedAt),
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := r.exec(ctx).QueryRow(ctx, query, args...).Scan(&msg.ID); err != nil {
			return fmt.Errorf("insert outbox message %s: %w", msg.EventID, err)
		}
	}
	return nil
}

func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query, args, err := r.sb.Select(columns...).
		From(table).
		Where(sq.Eq{"published_at": nil, "dead_lettered_at": nil}).
		Where(sq.Or{sq.Eq{"next_retry_at": nil}, sq.LtOrEq{"next_retry_at": r.driver().Time(r.now())}}).
		OrderBy("created_at", "id").
		Limit(convert.ClampUint64(max(limit, 1))).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unpublished: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	return r.update(ctx, id, sq.Eq{"published_at": r.driver().Time(r.now())})
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.update(ctx, id, map[string]any{
		"retry_count":   sq.Expr("retry_count + 1"),
		"last_error":    reason,
		"next_retry_at": r.driver().Time(nextRetryAt),
	})
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, id, map[string]any{
		"retry_count":        sq.Expr("retry_count + 1"),
		"last_error":         reason,
		"dead_lettered_at":   r.driver().Time(r.now()),
		"dead_letter_reason": reason,
	})
}

func (r *SQLRepository) update(ctx context.Context, id int64, set map[string]any) error {
	query, args, err := r.sb.Update(table).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.exec(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update outbox message %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("outbox message %d not found", id)
	}
	return nil
}

func (r *SQLRepository) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.now().Add(-olderThan)
	query, args, err := r.sb.Delete(table).
		Where(sq.NotEq{"published_at": nil}).
		Where(sq.Lt{"published_at": r.driver().Time(cutoff)}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.exec(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old outbox messages: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLRepository) CountPending(ctx context.Context) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"published_at": nil, "dead_lettered_at": nil}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.exec(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}

func metadataOrEmpty(meta []byte) string {
	if len(meta) == 0 {
		return "{}"
	}
	return string(meta)
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg                                 Message
		eventID, aggregateID                string
		payload, metadata                   []byte
		createdAt, publishedAt, nextRetryAt database.Timestamp
		deadAt                              database.Timestamp
		lastError, deadReason               *string
	)
	err := row.Scan(
		&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.EventType, &msg.RoutingKey,
		&payload, &metadata, &createdAt, &publishedAt, &msg.RetryCount, &lastError,
		&nextRetryAt, &deadAt, &deadReason,
	)
	if err != nil {
		return nil, fmt.Errorf("scan outbox message: %w", err)
	}

	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("outbox message %d event id: %w", msg.ID, err)
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, fmt.Errorf("outbox message %d aggregate id: %w", msg.ID, err)
	}
	msg.Payload = payload
	msg.Metadata = metadata
	msg.CreatedAt = createdAt.Time
	msg.PublishedAt = publishedAt.Ptr()
	msg.NextRetryAt = nextRetryAt.Ptr()
	msg.DeadLetteredAt = deadAt.Ptr()
	msg.LastError = lastError
	msg.DeadLetterReason = deadReason
	return &msg, nil
}
