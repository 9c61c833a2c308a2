package application

import (
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/google/uuid"
)

// ActivityDTO is the outward form of a daily rollup.
type ActivityDTO struct {
	ID                uuid.UUID                `json:"id"`
	UserID            uuid.UUID                `json:"user_id"`
	Date              string                   `json:"date"`
	TotalTasks        int                      `json:"total_tasks"`
	CompletedTasks    int                      `json:"completed_tasks"`
	TotalHours        float64                  `json:"total_hours"`
	ProductivityScore int                      `json:"productivity_score"`
	Intensity         int                      `json:"intensity"`
	TasksByCategory   domain.CategoryBreakdown `json:"tasks_by_category"`
	TasksByPriority   domain.PriorityBreakdown `json:"tasks_by_priority"`
	AverageFocusLevel float64                  `json:"average_focus_level"`
	AverageDifficulty float64                  `json:"average_difficulty"`
	Notes             string                   `json:"notes,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// ToActivityDTO converts a rollup. A nil rollup converts to nil.
func ToActivityDTO(a *domain.Activity) *ActivityDTO {
	if a == nil {
		return nil
	}
	return &ActivityDTO{
		ID:                a.ID,
		UserID:            a.UserID,
		Date:              a.DateKey(),
		TotalTasks:        a.TotalTasks,
		CompletedTasks:    a.CompletedTasks,
		TotalHours:        a.TotalHours,
		ProductivityScore: a.ProductivityScore,
		Intensity:         a.Intensity,
		TasksByCategory:   a.TasksByCategory,
		TasksByPriority:   a.TasksByPriority,
		AverageFocusLevel: a.AverageFocusLevel,
		AverageDifficulty: a.AverageDifficulty,
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func toActivityDTOs(activities []*domain.Activity) []ActivityDTO {
	out := make([]ActivityDTO, 0, len(activities))
	for _, a := range activities {
		if dto := ToActivityDTO(a); dto != nil {
			out = append(out, *dto)
		}
	}
	return out
}

// RecomputeResult is the outward form of a recompute.
type RecomputeResult struct {
	Date       string       `json:"date"`
	Recomputed bool         `json:"recomputed"`
	Cleared    bool         `json:"cleared"`
	Activity   *ActivityDTO `json:"activity,omitempty"`
}
