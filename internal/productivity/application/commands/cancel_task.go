package commands

import (
	"context"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CancelTaskCommand contains the data needed to cancel a task.
type CancelTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CancelTaskHandler handles the CancelTaskCommand.
type CancelTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCancelTaskHandler creates a new CancelTaskHandler.
func NewCancelTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CancelTaskHandler {
	return &CancelTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CancelTaskCommand.
func (h *CancelTaskHandler) Handle(ctx context.Context, cmd CancelTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := loadOwned(txCtx, h.taskRepo, cmd.TaskID, cmd.UserID)
		if err != nil {
			return err
		}

		if err := t.Cancel(); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		return publishEvents(txCtx, h.outboxRepo, t, cmd.UserID)
	})
}
