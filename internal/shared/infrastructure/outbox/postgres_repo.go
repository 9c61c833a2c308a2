package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
)

// PostgresRepository stores messages in PostgreSQL.
type PostgresRepository struct {
	conn database.Connection
}

// NewPostgresRepository creates an outbox repository for server mode.
func NewPostgresRepository(conn database.Connection) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, m := range msgs {
		err := exec.QueryRow(ctx, `
			INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			m.EventID, m.AggregateType, m.AggregateID, m.EventType, m.RoutingKey,
			[]byte(m.Payload), []byte(m.Metadata), m.CreatedAt,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert outbox message %s: %w", m.EventID, err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata,
		       created_at, retry_count, last_error, next_retry_at
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return database.CollectRows(rows, func(row database.Row) (*Message, error) {
		var (
			m                 Message
			payload, metadata []byte
		)
		err := row.Scan(&m.ID, &m.EventID, &m.AggregateType, &m.AggregateID, &m.EventType, &m.RoutingKey,
			&payload, &metadata, &m.CreatedAt, &m.RetryCount, &m.LastError, &m.NextRetryAt)
		if err != nil {
			return nil, err
		}
		m.Payload = payload
		m.Metadata = metadata
		return &m, nil
	})
}

func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE outbox SET published_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE outbox SET retry_count = retry_count + 1, last_error = $2, next_retry_at = $3
		WHERE id = $1`, id, errMsg, nextRetryAt)
	return err
}

func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE outbox SET dead_lettered_at = NOW(), dead_letter_reason = $2, last_error = $2
		WHERE id = $1`, id, reason)
	return err
}

func (r *PostgresRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	res, err := r.conn.Exec(ctx, `
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < NOW() - INTERVAL '1 day' * $1`, olderThanDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// NewRepository picks the implementation matching conn's driver.
func NewRepository(conn database.Connection) Repository {
	if conn.Driver() == database.DriverPostgres {
		return NewPostgresRepository(conn)
	}
	return NewSQLiteRepository(conn)
}
