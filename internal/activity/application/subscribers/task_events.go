// Package subscribers keeps activity rollups in step with the task store.
package subscribers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/activity/application/commands"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pulse/pkg/observability"
)

// Recomputer rebuilds the rollup of one day.
type Recomputer interface {
	Handle(ctx context.Context, cmd commands.RecomputeDailyActivityCommand) (*commands.RecomputeResult, error)
}

// TaskEventPayload is the part of every task event the subscriber reads.
type TaskEventPayload struct {
	UserID            uuid.UUID  `json:"user_id"`
	StartTime         time.Time  `json:"start_time"`
	PreviousStartTime *time.Time `json:"previous_start_time,omitempty"`
}

// TaskEventSubscriber recomputes the days touched by task events. An update
// that moves a task to another day recomputes both days.
type TaskEventSubscriber struct {
	recompute Recomputer
	location  *time.Location
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewTaskEventSubscriber creates a new task event subscriber.
func NewTaskEventSubscriber(recompute Recomputer, location *time.Location, logger *slog.Logger, metrics observability.Metrics) *TaskEventSubscriber {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &TaskEventSubscriber{
		recompute: recompute,
		location:  location,
		logger:    logger,
		metrics:   metrics,
	}
}

// EventTypes returns the event types this subscriber handles.
func (s *TaskEventSubscriber) EventTypes() []string {
	return task.RoutingKeys
}

// Handle processes an event. Undecodable payloads are logged and dropped;
// recompute failures are returned so the message is retried.
func (s *TaskEventSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	s.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))

	var payload TaskEventPayload
	if err := event.Decode(&payload); err != nil {
		s.logger.ErrorContext(ctx, "dropping task event with bad payload",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"error", err,
		)
		return nil
	}

	userID := payload.UserID
	if userID == uuid.Nil {
		userID = event.Metadata.UserID
	}
	if userID == uuid.Nil || payload.StartTime.IsZero() {
		s.logger.WarnContext(ctx, "task event without user or start time",
			"routing_key", event.RoutingKey,
			"task_id", event.AggregateID,
		)
		return nil
	}

	days := s.affectedDays(payload)
	var errs []error
	for _, day := range days {
		result, err := s.recompute.Handle(ctx, commands.RecomputeDailyActivityCommand{UserID: userID, Date: day})
		if err != nil {
			errs = append(errs, fmt.Errorf("recompute %s: %w", domain.DateKey(day), err))
			continue
		}
		s.logger.DebugContext(ctx, "activity updated from task event",
			"routing_key", event.RoutingKey,
			"task_id", event.AggregateID,
			"date", domain.DateKey(day),
			"recomputed", result.Recomputed,
			"cleared", result.Cleared,
		)
	}
	return errors.Join(errs...)
}

func (s *TaskEventSubscriber) affectedDays(p TaskEventPayload) []time.Time {
	current := domain.StartOfDay(p.StartTime, s.location)
	if p.PreviousStartTime == nil {
		return []time.Time{current}
	}
	previous := domain.StartOfDay(*p.PreviousStartTime, s.location)
	if previous.Equal(current) {
		return []time.Time{current}
	}
	return []time.Time{previous, current}
}
