package queries

import (
	"time"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category"`
	Priority        string     `json:"priority"`
	Difficulty      int        `json:"difficulty"`
	FocusLevel      int        `json:"focus_level"`
	Status          string     `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Tags            []string   `json:"tags"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToTaskDTO converts a task.
func ToTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:              t.ID(),
		Title:           t.Title(),
		Description:     t.Description(),
		Category:        t.Category().String(),
		Priority:        t.Priority().String(),
		Difficulty:      t.Difficulty().Value(),
		FocusLevel:      t.FocusLevel().Value(),
		Status:          t.Status().String(),
		StartTime:       t.StartTime(),
		EndTime:         t.EndTime(),
		DurationMinutes: t.DurationMinutes(),
		CompletedAt:     t.CompletedAt(),
		Tags:            t.Tags(),
		Notes:           t.Notes(),
		CreatedAt:       t.CreatedAt(),
	}
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
