package task

import (
	"time"

	"github.com/felixgeelhaar/pulse/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated   = "productivity.task.created"
	RoutingKeyStarted   = "productivity.task.started"
	RoutingKeyUpdated   = "productivity.task.updated"
	RoutingKeyCompleted = "productivity.task.completed"
	RoutingKeyCancelled = "productivity.task.cancelled"
	RoutingKeyDeleted   = "productivity.task.deleted"
)

// RoutingKeys lists every task routing key.
var RoutingKeys = []string{
	RoutingKeyCreated,
	RoutingKeyStarted,
	RoutingKeyUpdated,
	RoutingKeyCompleted,
	RoutingKeyCancelled,
	RoutingKeyDeleted,
}

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"`
	StartTime time.Time `json:"start_time"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyCreated),
		UserID:    t.userID,
		Title:     t.title,
		Category:  t.category.String(),
		Priority:  t.priority.String(),
		StartTime: t.StartTime(),
	}
}

// TaskStarted is emitted when a task is started (moved to in-progress).
type TaskStarted struct {
	domain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	StartTime time.Time `json:"start_time"`
}

// NewTaskStarted creates a TaskStarted event.
func NewTaskStarted(t *Task) *TaskStarted {
	return &TaskStarted{
		BaseEvent: domain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyStarted),
		UserID:    t.userID,
		StartTime: t.StartTime(),
	}
}

// TaskUpdated is emitted when a task is updated. PreviousStartTime is set
// when the update moved the task to another start time.
type TaskUpdated struct {
	domain.BaseEvent
	UserID            uuid.UUID  `json:"user_id"`
	Fields            []string   `json:"fields"`
	StartTime         time.Time  `json:"start_time"`
	PreviousStartTime *time.Time `json:"previous_start_time,omitempty"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t *Task, fields []string, previousStart *time.Time) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent:         domain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyUpdated),
		UserID:            t.userID,
		Fields:            fields,
		StartTime:         t.StartTime(),
		PreviousStartTime: previousStart,
	}
}

// TaskCompleted is emitted when a task is completed.
type TaskCompleted struct {
	domain.BaseEvent
	UserID      uuid.UUID `json:"user_id"`
	StartTime   time.Time `json:"start_time"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(t *Task) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent:   domain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyCompleted),
		UserID:      t.userID,
		StartTime:   t.StartTime(),
		CompletedAt: *t.completedAt,
	}
}

// TaskCancelled is emitted when a task is cancelled.
type TaskCancelled struct {
	domain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	StartTime time.Time `json:"start_time"`
}

// NewTaskCancelled creates a TaskCancelled event.
func NewTaskCancelled(t *Task) *TaskCancelled {
	return &TaskCancelled{
		BaseEvent: domain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyCancelled),
		UserID:    t.userID,
		StartTime: t.StartTime(),
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	StartTime time.Time `json:"start_time"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(t *Task) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: domain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyDeleted),
		UserID:    t.userID,
		StartTime: t.StartTime(),
	}
}
