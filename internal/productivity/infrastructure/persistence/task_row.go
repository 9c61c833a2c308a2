// Package persistence stores tasks in SQLite (local mode) or PostgreSQL.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/pulse/internal/shared/domain"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
)

const taskColumns = `id, user_id, title, description, category, priority, difficulty, focus_level,
	status, start_time, end_time, completed_at, tags, notes, version, created_at, updated_at`

// taskRow is the driver-neutral column set of the tasks table.
type taskRow struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Category    string
	Priority    string
	Difficulty  int
	FocusLevel  int
	Status      string
	StartTime   time.Time
	EndTime     time.Time
	CompletedAt *time.Time
	Tags        []byte
	Notes       string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func encodeTags(t *task.Task) ([]byte, error) {
	tags, err := json.Marshal(t.Tags())
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return tags, nil
}

func (r taskRow) toDomain() (*task.Task, error) {
	category, err := value_objects.ParseCategory(r.Category)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", r.ID, err)
	}
	priority, err := value_objects.ParsePriority(r.Priority)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", r.ID, err)
	}
	difficulty, err := value_objects.NewDifficulty(r.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", r.ID, err)
	}
	focus, err := value_objects.NewFocusLevel(r.FocusLevel)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", r.ID, err)
	}
	status, err := task.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", r.ID, err)
	}
	timeRange, err := value_objects.NewTimeRange(r.StartTime, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", r.ID, err)
	}

	var tags []string
	if len(r.Tags) > 0 {
		if err := json.Unmarshal(r.Tags, &tags); err != nil {
			return nil, fmt.Errorf("task %s: decode tags: %w", r.ID, err)
		}
	}

	base := domain.RehydrateBaseAggregateRoot(
		domain.RehydrateBaseEntity(r.ID, r.CreatedAt, r.UpdatedAt),
		r.Version,
	)
	return task.RehydrateTask(base, r.UserID, r.Title, r.Description, category, priority,
		difficulty, focus, status, timeRange, r.CompletedAt, tags, r.Notes), nil
}

func collectTasks(rows database.Rows, scan func(database.Row) (*task.Task, error)) ([]*task.Task, error) {
	tasks, err := database.CollectRows(rows, scan)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, nil
}

// NewTaskRepository picks the implementation matching conn's driver.
func NewTaskRepository(conn database.Connection) task.Repository {
	if conn.Driver() == database.DriverPostgres {
		return NewPostgresTaskRepository(conn)
	}
	return NewSQLiteTaskRepository(conn)
}
