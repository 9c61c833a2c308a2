package commands

import (
	"context"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteTaskCommand contains the data needed to delete a task.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle removes the task and records TaskDeleted so its day is rebuilt.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := loadOwned(txCtx, h.taskRepo, cmd.TaskID, cmd.UserID)
		if err != nil {
			return err
		}

		t.MarkDeleted()

		if err := h.taskRepo.Delete(txCtx, t.ID()); err != nil {
			return err
		}
		return publishEvents(txCtx, h.outboxRepo, t, cmd.UserID)
	})
}
