package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a task listing. Zero values match everything.
type ListFilter struct {
	From   time.Time
	To     time.Time
	Status *Status
	Limit  int
}

// Repository defines the interface for task persistence.
type Repository interface {
	// Save inserts or updates the task. Updates fail with
	// ErrOptimisticLocking when the stored version moved on.
	Save(ctx context.Context, task *Task) error
	// FindByID returns ErrTaskNotFound for unknown ids.
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindByUserID lists the user's tasks by start time, newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Task, error)
	// FindStartingBetween lists tasks whose start time is in [from, to).
	FindStartingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
