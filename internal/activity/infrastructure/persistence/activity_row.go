// Package persistence stores daily activity rollups and reads the tasks they
// are built from.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
)

const activityColumns = `id, user_id, activity_date, total_tasks, completed_tasks, total_hours,
	productivity_score, intensity, tasks_by_category, tasks_by_priority,
	average_focus_level, average_difficulty, notes, created_at, updated_at`

type breakdowns struct {
	category []byte
	priority []byte
}

func encodeBreakdowns(a *domain.Activity) (breakdowns, error) {
	category, err := json.Marshal(a.TasksByCategory)
	if err != nil {
		return breakdowns{}, fmt.Errorf("encode category breakdown: %w", err)
	}
	priority, err := json.Marshal(a.TasksByPriority)
	if err != nil {
		return breakdowns{}, fmt.Errorf("encode priority breakdown: %w", err)
	}
	return breakdowns{category: category, priority: priority}, nil
}

func (b breakdowns) decodeInto(a *domain.Activity) error {
	if len(b.category) > 0 {
		if err := json.Unmarshal(b.category, &a.TasksByCategory); err != nil {
			return fmt.Errorf("activity %s: decode category breakdown: %w", a.ID, err)
		}
	}
	if len(b.priority) > 0 {
		if err := json.Unmarshal(b.priority, &a.TasksByPriority); err != nil {
			return fmt.Errorf("activity %s: decode priority breakdown: %w", a.ID, err)
		}
	}
	return nil
}

// calendarDay re-anchors a stored day at midnight in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func collectActivities(rows database.Rows, scan func(database.Row) (*domain.Activity, error)) ([]*domain.Activity, error) {
	out, err := database.CollectRows(rows, scan)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.Activity{}
	}
	return out, nil
}

// NewActivityRepository picks the implementation matching conn's driver.
// Stored days are read back as midnight in loc.
func NewActivityRepository(conn database.Connection, loc *time.Location) domain.ActivityRepository {
	if conn.Driver() == database.DriverPostgres {
		return NewPostgresActivityRepository(conn, loc)
	}
	return NewSQLiteActivityRepository(conn, loc)
}
