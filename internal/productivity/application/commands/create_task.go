package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task. Zero values
// of the optional fields pick the defaults.
type CreateTaskCommand struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Category    string
	Priority    string
	Difficulty  int
	FocusLevel  int
	StartTime   time.Time
	EndTime     time.Time
	Tags        []string
	Notes       string
	Completed   bool
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	t, err := buildTask(cmd)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		return publishEvents(txCtx, h.outboxRepo, t, cmd.UserID)
	})
	if err != nil {
		return nil, err
	}

	return &CreateTaskResult{TaskID: t.ID()}, nil
}

func buildTask(cmd CreateTaskCommand) (*task.Task, error) {
	timeRange, err := value_objects.NewTimeRange(cmd.StartTime, cmd.EndTime)
	if err != nil {
		return nil, err
	}

	t, err := task.NewTask(cmd.UserID, cmd.Title, timeRange)
	if err != nil {
		return nil, err
	}

	if cmd.Description != "" {
		if err := t.SetDescription(cmd.Description); err != nil {
			return nil, err
		}
	}

	category, err := value_objects.ParseCategory(cmd.Category)
	if err != nil {
		return nil, err
	}
	if err := t.SetCategory(category); err != nil {
		return nil, err
	}

	priority, err := value_objects.ParsePriority(cmd.Priority)
	if err != nil {
		return nil, err
	}
	if err := t.SetPriority(priority); err != nil {
		return nil, err
	}

	if cmd.Difficulty != 0 {
		difficulty, err := value_objects.NewDifficulty(cmd.Difficulty)
		if err != nil {
			return nil, err
		}
		if err := t.SetDifficulty(difficulty); err != nil {
			return nil, err
		}
	}

	if cmd.FocusLevel != 0 {
		focus, err := value_objects.NewFocusLevel(cmd.FocusLevel)
		if err != nil {
			return nil, err
		}
		if err := t.SetFocusLevel(focus); err != nil {
			return nil, err
		}
	}

	if len(cmd.Tags) > 0 {
		if err := t.SetTags(cmd.Tags); err != nil {
			return nil, err
		}
	}

	if cmd.Notes != "" {
		if err := t.SetNotes(cmd.Notes); err != nil {
			return nil, err
		}
	}

	if cmd.Completed {
		if err := t.Complete(); err != nil {
			return nil, err
		}
	}

	return t, nil
}
