package commands

import (
	"context"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// StartTaskCommand contains the data needed to start a task.
type StartTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// StartTaskHandler handles the StartTaskCommand.
type StartTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewStartTaskHandler creates a new StartTaskHandler.
func NewStartTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *StartTaskHandler {
	return &StartTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the StartTaskCommand.
func (h *StartTaskHandler) Handle(ctx context.Context, cmd StartTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := loadOwned(txCtx, h.taskRepo, cmd.TaskID, cmd.UserID)
		if err != nil {
			return err
		}

		if err := t.Start(); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		return publishEvents(txCtx, h.outboxRepo, t, cmd.UserID)
	})
}
