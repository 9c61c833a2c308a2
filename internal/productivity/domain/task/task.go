package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/pulse/internal/shared/domain"
	"github.com/google/uuid"
)

// Field limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxNotesLength       = 500
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTitleTooLong        = errors.New("task title exceeds 200 characters")
	ErrDescriptionTooLong  = errors.New("task description exceeds 1000 characters")
	ErrNotesTooLong        = errors.New("task notes exceed 500 characters")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrTaskCancelled       = errors.New("task is cancelled")
	ErrOptimisticLocking   = errors.New("task was modified concurrently")
	ErrNotOwner            = errors.New("task belongs to another user")

	ErrInvalidCategory   = value_objects.ErrInvalidCategory
	ErrInvalidPriority   = value_objects.ErrInvalidPriority
	ErrInvalidDifficulty = value_objects.ErrInvalidDifficulty
	ErrInvalidFocusLevel = value_objects.ErrInvalidFocusLevel
	ErrInvalidTimeRange  = value_objects.ErrInvalidTimeRange
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in-progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseStatus reads the String form of a status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "in-progress", "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return 0, fmt.Errorf("invalid status %q", s)
	}
}

// Task represents a timed unit of work.
type Task struct {
	domain.BaseAggregateRoot
	userID      uuid.UUID
	title       string
	description string
	category    value_objects.Category
	priority    value_objects.Priority
	difficulty  value_objects.Rating
	focusLevel  value_objects.Rating
	status      Status
	timeRange   value_objects.TimeRange
	completedAt *time.Time
	tags        []string
	notes       string
}

// NewTask creates a pending task with default category, priority and
// ratings.
func NewTask(userID uuid.UUID, title string, timeRange value_objects.TimeRange) (*Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	if timeRange.Start().IsZero() {
		return nil, ErrInvalidTimeRange
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		category:          value_objects.DefaultCategory,
		priority:          value_objects.DefaultPriority,
		difficulty:        value_objects.DefaultRatingValue(),
		focusLevel:        value_objects.DefaultRatingValue(),
		status:            StatusPending,
		timeRange:         timeRange,
		tags:              []string{},
	}

	t.AddDomainEvent(NewTaskCreated(t))

	return t, nil
}

// RehydrateTask recreates a task from persisted state without raising events.
func RehydrateTask(
	base domain.BaseAggregateRoot,
	userID uuid.UUID,
	title, description string,
	category value_objects.Category,
	priority value_objects.Priority,
	difficulty, focusLevel value_objects.Rating,
	status Status,
	timeRange value_objects.TimeRange,
	completedAt *time.Time,
	tags []string,
	notes string,
) *Task {
	if tags == nil {
		tags = []string{}
	}
	return &Task{
		BaseAggregateRoot: base,
		userID:            userID,
		title:             title,
		description:       description,
		category:          category,
		priority:          priority,
		difficulty:        difficulty,
		focusLevel:        focusLevel,
		status:            status,
		timeRange:         timeRange,
		completedAt:       completedAt,
		tags:              tags,
		notes:             notes,
	}
}

// Getters

func (t *Task) UserID() uuid.UUID                  { return t.userID }
func (t *Task) Title() string                      { return t.title }
func (t *Task) Description() string                { return t.description }
func (t *Task) Category() value_objects.Category   { return t.category }
func (t *Task) Priority() value_objects.Priority   { return t.priority }
func (t *Task) Difficulty() value_objects.Rating   { return t.difficulty }
func (t *Task) FocusLevel() value_objects.Rating   { return t.focusLevel }
func (t *Task) Status() Status                     { return t.status }
func (t *Task) TimeRange() value_objects.TimeRange { return t.timeRange }
func (t *Task) StartTime() time.Time               { return t.timeRange.Start() }
func (t *Task) EndTime() time.Time                 { return t.timeRange.End() }
func (t *Task) DurationMinutes() int               { return t.timeRange.Minutes() }
func (t *Task) CompletedAt() *time.Time            { return t.completedAt }
func (t *Task) Tags() []string                     { return slices.Clone(t.tags) }
func (t *Task) Notes() string                      { return t.notes }
func (t *Task) IsCompleted() bool                  { return t.status == StatusCompleted }
func (t *Task) IsCancelled() bool                  { return t.status == StatusCancelled }

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	title, err := validateTitle(title)
	if err != nil {
		return err
	}
	t.title = title
	t.Touch()
	return nil
}

// SetDescription updates the task description.
func (t *Task) SetDescription(description string) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	t.description = description
	t.Touch()
	return nil
}

// SetCategory updates the task category.
func (t *Task) SetCategory(category value_objects.Category) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	if !category.IsValid() {
		return ErrInvalidCategory
	}
	t.category = category
	t.Touch()
	return nil
}

// SetPriority updates the task priority.
func (t *Task) SetPriority(priority value_objects.Priority) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	if !priority.IsValid() {
		return ErrInvalidPriority
	}
	t.priority = priority
	t.Touch()
	return nil
}

// SetDifficulty updates the difficulty rating.
func (t *Task) SetDifficulty(difficulty value_objects.Rating) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	t.difficulty = difficulty
	t.Touch()
	return nil
}

// SetFocusLevel updates the focus rating.
func (t *Task) SetFocusLevel(focus value_objects.Rating) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	t.focusLevel = focus
	t.Touch()
	return nil
}

// Reschedule moves the task to a new time range. Duration follows.
func (t *Task) Reschedule(timeRange value_objects.TimeRange) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	if timeRange.Start().IsZero() {
		return ErrInvalidTimeRange
	}
	t.timeRange = timeRange
	t.Touch()
	return nil
}

// SetTags replaces the tags. Blank and duplicate tags are dropped.
func (t *Task) SetTags(tags []string) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(cleaned, tag) {
			continue
		}
		cleaned = append(cleaned, tag)
	}
	t.tags = cleaned
	t.Touch()
	return nil
}

// SetNotes updates the free-text notes.
func (t *Task) SetNotes(notes string) error {
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	t.notes = notes
	t.Touch()
	return nil
}

// RecordUpdate raises TaskUpdated for the given fields. previousStart is
// the start time before the update, or nil when it did not change.
func (t *Task) RecordUpdate(fields []string, previousStart *time.Time) {
	if len(fields) == 0 {
		return
	}
	t.AddDomainEvent(NewTaskUpdated(t, fields, previousStart))
}

// Start marks the task as in progress.
func (t *Task) Start() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsCancelled() {
		return ErrTaskCancelled
	}
	if t.status == StatusInProgress {
		return nil // Idempotent
	}
	t.status = StatusInProgress
	t.Touch()
	t.AddDomainEvent(NewTaskStarted(t))
	return nil
}

// Complete marks the task as completed. completedAt is set on the first
// completion only.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsCancelled() {
		return ErrTaskCancelled
	}

	if t.completedAt == nil {
		now := time.Now().UTC()
		t.completedAt = &now
	}
	t.status = StatusCompleted
	t.Touch()

	t.AddDomainEvent(NewTaskCompleted(t))

	return nil
}

// Cancel marks the task as cancelled.
func (t *Task) Cancel() error {
	if t.IsCancelled() {
		return nil // Idempotent
	}

	t.status = StatusCancelled
	t.Touch()

	t.AddDomainEvent(NewTaskCancelled(t))

	return nil
}

// MarkDeleted raises TaskDeleted. The caller removes the task from storage.
func (t *Task) MarkDeleted() {
	t.AddDomainEvent(NewTaskDeleted(t))
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
