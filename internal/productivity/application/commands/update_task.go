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

// UpdateTaskCommand contains the data needed to update a task.
type UpdateTaskCommand struct {
	TaskID      uuid.UUID
	UserID      uuid.UUID
	Title       *string    // nil means no change
	Description *string    // nil means no change
	Category    *string    // nil means no change
	Priority    *string    // nil means no change
	Difficulty  *int       // nil means no change
	FocusLevel  *int       // nil means no change
	StartTime   *time.Time // nil keeps the current start
	EndTime     *time.Time // nil keeps the current end
	Tags        []string   // nil means no change
	Notes       *string    // nil means no change
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateTaskCommand.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := loadOwned(txCtx, h.taskRepo, cmd.TaskID, cmd.UserID)
		if err != nil {
			return err
		}

		updatedFields, previousStart, err := applyUpdate(t, cmd)
		if err != nil {
			return err
		}

		// No changes to save
		if len(updatedFields) == 0 {
			return nil
		}

		t.RecordUpdate(updatedFields, previousStart)

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		return publishEvents(txCtx, h.outboxRepo, t, cmd.UserID)
	})
}

// applyUpdate sets every provided field and reports which ones were set.
// previousStart is non-nil when the start time moved.
func applyUpdate(t *task.Task, cmd UpdateTaskCommand) ([]string, *time.Time, error) {
	var (
		fields        []string
		previousStart *time.Time
	)

	if cmd.Title != nil {
		if err := t.SetTitle(*cmd.Title); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "title")
	}

	if cmd.Description != nil {
		if err := t.SetDescription(*cmd.Description); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "description")
	}

	if cmd.Category != nil {
		category, err := value_objects.ParseCategory(*cmd.Category)
		if err != nil {
			return nil, nil, err
		}
		if err := t.SetCategory(category); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "category")
	}

	if cmd.Priority != nil {
		priority, err := value_objects.ParsePriority(*cmd.Priority)
		if err != nil {
			return nil, nil, err
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "priority")
	}

	if cmd.Difficulty != nil {
		difficulty, err := value_objects.NewDifficulty(*cmd.Difficulty)
		if err != nil {
			return nil, nil, err
		}
		if err := t.SetDifficulty(difficulty); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "difficulty")
	}

	if cmd.FocusLevel != nil {
		focus, err := value_objects.NewFocusLevel(*cmd.FocusLevel)
		if err != nil {
			return nil, nil, err
		}
		if err := t.SetFocusLevel(focus); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "focus_level")
	}

	if cmd.StartTime != nil || cmd.EndTime != nil {
		start, end := t.StartTime(), t.EndTime()
		if cmd.StartTime != nil {
			start = *cmd.StartTime
		}
		if cmd.EndTime != nil {
			end = *cmd.EndTime
		}
		timeRange, err := value_objects.NewTimeRange(start, end)
		if err != nil {
			return nil, nil, err
		}
		before := t.StartTime()
		if err := t.Reschedule(timeRange); err != nil {
			return nil, nil, err
		}
		if !before.Equal(timeRange.Start()) {
			previousStart = &before
		}
		fields = append(fields, "time_range")
	}

	if cmd.Tags != nil {
		if err := t.SetTags(cmd.Tags); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "tags")
	}

	if cmd.Notes != nil {
		if err := t.SetNotes(*cmd.Notes); err != nil {
			return nil, nil, err
		}
		fields = append(fields, "notes")
	}

	return fields, previousStart, nil
}
