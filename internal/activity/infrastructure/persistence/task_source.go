package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
)

// TaskSource reads rollup input from the productivity task store.
type TaskSource struct {
	tasks task.Repository
}

// NewTaskSource adapts a task repository to domain.TaskSource.
func NewTaskSource(tasks task.Repository) *TaskSource {
	return &TaskSource{tasks: tasks}
}

func (s *TaskSource) TasksStartingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.TaskRecord, error) {
	tasks, err := s.tasks.FindStartingBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	records := make([]domain.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, ToTaskRecord(t))
	}
	return records, nil
}

// ToTaskRecord projects a task onto the fields the rollup uses.
func ToTaskRecord(t *task.Task) domain.TaskRecord {
	return domain.TaskRecord{
		ID:              t.ID(),
		Category:        domain.Category(t.Category().String()),
		Priority:        domain.Priority(t.Priority().String()),
		Difficulty:      t.Difficulty().Value(),
		FocusLevel:      t.FocusLevel().Value(),
		Completed:       t.IsCompleted(),
		DurationMinutes: t.DurationMinutes(),
		StartTime:       t.StartTime(),
	}
}
