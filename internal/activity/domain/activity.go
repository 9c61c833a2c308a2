// Package domain contains the daily activity model and the pure analytics
// built on top of it.
package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNotesLength is the maximum number of characters in activity notes.
const MaxNotesLength = 500

// TaskRecord is the view of a task the rollup builder needs.
type TaskRecord struct {
	ID              uuid.UUID
	Category        Category
	Priority        Priority
	Difficulty      int
	FocusLevel      int
	Completed       bool
	DurationMinutes int
	StartTime       time.Time
}

// DailyStats are the derived fields of a day, computed from its tasks.
type DailyStats struct {
	TotalTasks        int
	CompletedTasks    int
	TotalHours        float64
	TasksByCategory   CategoryBreakdown
	TasksByPriority   PriorityBreakdown
	AverageFocusLevel float64
	AverageDifficulty float64
}

// BuildDailyStats folds a day's tasks into its stats. Histograms count every
// task whatever its status.
func BuildDailyStats(tasks []TaskRecord) DailyStats {
	var (
		stats         DailyStats
		minutes       int
		focusSum      int
		difficultySum int
	)

	for _, t := range tasks {
		stats.TotalTasks++
		if t.Completed {
			stats.CompletedTasks++
		}
		minutes += t.DurationMinutes
		focusSum += t.FocusLevel
		difficultySum += t.Difficulty
		stats.TasksByCategory.Add(t.Category)
		stats.TasksByPriority.Add(t.Priority)
	}

	stats.TotalHours = Round1(float64(minutes) / 60)
	if stats.TotalTasks > 0 {
		stats.AverageFocusLevel = Round1(float64(focusSum) / float64(stats.TotalTasks))
		stats.AverageDifficulty = Round1(float64(difficultySum) / float64(stats.TotalTasks))
	}
	return stats
}

// Activity is the rollup of one user's calendar day.
type Activity struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Date   time.Time

	TotalTasks        int
	CompletedTasks    int
	TotalHours        float64
	ProductivityScore int
	Intensity         int
	TasksByCategory   CategoryBreakdown
	TasksByPriority   PriorityBreakdown
	AverageFocusLevel float64
	AverageDifficulty float64

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewActivity creates the rollup for a day from its stats. The score is
// derived from the stats and the intensity from the hours and the score.
func NewActivity(userID uuid.UUID, date time.Time, stats DailyStats) *Activity {
	now := time.Now()
	a := &Activity{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.Replace(stats)
	return a
}

// NewEmptyActivity creates a zero-valued rollup, used to hold notes for a
// day without tasks.
func NewEmptyActivity(userID uuid.UUID, date time.Time) *Activity {
	return NewActivity(userID, date, DailyStats{})
}

// Replace overwrites every derived field. Notes are kept.
func (a *Activity) Replace(stats DailyStats) {
	a.TotalTasks = stats.TotalTasks
	a.CompletedTasks = stats.CompletedTasks
	a.TotalHours = stats.TotalHours
	a.TasksByCategory = stats.TasksByCategory
	a.TasksByPriority = stats.TasksByPriority
	a.AverageFocusLevel = stats.AverageFocusLevel
	a.AverageDifficulty = stats.AverageDifficulty

	a.ProductivityScore = ProductivityScore(a.TotalTasks, a.CompletedTasks, a.AverageDifficulty, a.AverageFocusLevel)
	a.Intensity = Intensity(a.TotalHours, a.ProductivityScore)
	a.UpdatedAt = time.Now()
}

// Stats returns the derived fields as DailyStats.
func (a *Activity) Stats() DailyStats {
	return DailyStats{
		TotalTasks:        a.TotalTasks,
		CompletedTasks:    a.CompletedTasks,
		TotalHours:        a.TotalHours,
		TasksByCategory:   a.TasksByCategory,
		TasksByPriority:   a.TasksByPriority,
		AverageFocusLevel: a.AverageFocusLevel,
		AverageDifficulty: a.AverageDifficulty,
	}
}

// SetNotes replaces the free-text notes.
func (a *Activity) SetNotes(notes string) error {
	if err := ValidateNotes(notes); err != nil {
		return err
	}
	a.Notes = notes
	a.UpdatedAt = time.Now()
	return nil
}

// HasNotes reports whether the day carries notes.
func (a *Activity) HasNotes() bool {
	return a.Notes != ""
}

// IsEmpty reports whether the day has no tasks.
func (a *Activity) IsEmpty() bool {
	return a.TotalTasks == 0
}

// CompletionRate returns completed/total as a percentage, 0 without tasks.
func (a *Activity) CompletionRate() float64 {
	if a.TotalTasks == 0 {
		return 0
	}
	return float64(a.CompletedTasks) / float64(a.TotalTasks) * 100
}

// DateKey returns the activity day as YYYY-MM-DD.
func (a *Activity) DateKey() string {
	return DateKey(a.Date)
}

// ValidateNotes enforces MaxNotesLength.
func ValidateNotes(notes string) error {
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		return fmt.Errorf("%w: got %d", ErrNotesTooLong, n)
	}
	return nil
}
