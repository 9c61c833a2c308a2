package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID   uuid.UUID
	Day      *time.Time     // Only tasks starting on this calendar day
	Location *time.Location // Defines the day boundaries, Local when nil
	Status   string         // "", "pending", "in-progress", "completed", "cancelled"
	Category string         // Filter by category
	Priority string         // Filter by priority
	Limit    int            // Max number of tasks to return (0 = no limit)
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery. Tasks come newest start first.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	filter := task.ListFilter{}

	if query.Status != "" && query.Status != "all" {
		status, err := task.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	if query.Day != nil {
		loc := query.Location
		if loc == nil {
			loc = time.Local
		}
		d := query.Day.In(loc)
		filter.From = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		filter.To = filter.From.AddDate(0, 0, 1)
	}

	// Category and priority filters run in memory, so the limit does too.
	if query.Category == "" && query.Priority == "" {
		filter.Limit = query.Limit
	}

	tasks, err := h.taskRepo.FindByUserID(ctx, query.UserID, filter)
	if err != nil {
		return nil, err
	}

	if query.Category != "" {
		tasks = filterBy(tasks, func(t *task.Task) bool { return t.Category().String() == query.Category })
	}
	if query.Priority != "" {
		tasks = filterBy(tasks, func(t *task.Task) bool { return t.Priority().String() == query.Priority })
	}

	// Apply limit
	if query.Limit > 0 && len(tasks) > query.Limit {
		tasks = tasks[:query.Limit]
	}

	return toTaskDTOs(tasks), nil
}

func filterBy(tasks []*task.Task, keep func(*task.Task) bool) []*task.Task {
	var filtered []*task.Task
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
