package commands

import (
	"context"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// publishEvents stamps the task's pending events with the caller's metadata
// and stores them in the outbox inside the current unit of work.
func publishEvents(ctx context.Context, outboxRepo outbox.Repository, t *task.Task, userID uuid.UUID) error {
	events := t.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	t.ClearDomainEvents()
	return nil
}

// loadOwned fetches a task and checks it belongs to userID. Tasks of other
// users are reported as not found.
func loadOwned(ctx context.Context, repo task.Repository, taskID, userID uuid.UUID) (*task.Task, error) {
	t, err := repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.UserID() != userID {
		return nil, task.ErrTaskNotFound
	}
	return t, nil
}
