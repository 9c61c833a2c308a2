package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database/sqlite"
)

// SQLiteRepository stores messages in the local database.
type SQLiteRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLiteRepository creates an outbox repository for local mode.
func NewSQLiteRepository(conn database.Connection) *SQLiteRepository {
	return &SQLiteRepository{conn: conn, now: time.Now}
}

const sqliteInsert = `
	INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, m := range msgs {
		var id int64
		err := exec.QueryRow(ctx, sqliteInsert+" RETURNING id",
			m.EventID.String(), m.AggregateType, m.AggregateID.String(), m.EventType, m.RoutingKey,
			string(m.Payload), string(m.Metadata), formatTime(m.CreatedAt),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert outbox message %s: %w", m.EventID, err)
		}
		m.ID = id
	}
	return nil
}

func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata,
		       created_at, retry_count, last_error, next_retry_at
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY id
		LIMIT ?`, formatTime(r.now()), limit)
	if err != nil {
		return nil, err
	}
	return database.CollectRows(rows, scanSQLiteMessage)
}

func scanSQLiteMessage(row database.Row) (*Message, error) {
	var (
		m                            Message
		eventID, aggregateID         string
		payload, metadata, createdAt string
		lastError, nextRetryAt       sql.NullString
	)
	err := row.Scan(&m.ID, &eventID, &m.AggregateType, &aggregateID, &m.EventType, &m.RoutingKey,
		&payload, &metadata, &createdAt, &m.RetryCount, &lastError, &nextRetryAt)
	if err != nil {
		return nil, err
	}

	if err := m.EventID.UnmarshalText([]byte(eventID)); err != nil {
		return nil, err
	}
	if err := m.AggregateID.UnmarshalText([]byte(aggregateID)); err != nil {
		return nil, err
	}
	m.Payload = json.RawMessage(payload)
	m.Metadata = json.RawMessage(metadata)
	if m.CreatedAt, err = time.Parse(sqlite.TimeLayout, createdAt); err != nil {
		return nil, err
	}
	if lastError.Valid {
		m.LastError = &lastError.String
	}
	if nextRetryAt.Valid {
		t, err := time.Parse(sqlite.TimeLayout, nextRetryAt.String)
		if err != nil {
			return nil, err
		}
		m.NextRetryAt = &t
	}
	return &m, nil
}

func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`, formatTime(r.now()), id)
	return err
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`, errMsg, formatTime(nextRetryAt), id)
	return err
}

func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE outbox SET dead_lettered_at = ?, dead_letter_reason = ?, last_error = ?
		WHERE id = ?`, formatTime(r.now()), reason, reason, id)
	return err
}

func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	res, err := r.conn.Exec(ctx, `
		DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlite.TimeLayout)
}
