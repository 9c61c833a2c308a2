// Package outbox implements the transactional outbox: events are stored with
// the state change that raised them and relayed to the bus afterwards.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/pulse/internal/shared/domain"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Message is one stored event. Payload is the encoded bus envelope.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage wraps event for storage.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := eventbus.NewEnvelope(event)
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.RoutingKey(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewMessages wraps every event, stopping at the first encoding failure.
func NewMessages(events []domain.DomainEvent) ([]*Message, error) {
	msgs := make([]*Message, 0, len(events))
	for _, e := range events {
		m, err := NewMessage(e)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (m *Message) IsPublished() bool { return m.PublishedAt != nil }

func (m *Message) IsDead() bool { return m.DeadLetteredAt != nil }

// Repository persists outbox messages.
type Repository interface {
	// SaveBatch joins the transaction in ctx when there is one.
	SaveBatch(ctx context.Context, msgs []*Message) error
	// GetUnpublished returns due, undelivered messages oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error
	// DeleteOld removes published messages older than the retention window.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}
