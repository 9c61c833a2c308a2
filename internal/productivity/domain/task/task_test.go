package task_test

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var morning = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func timeRange(t *testing.T, start time.Time, minutes int) value_objects.TimeRange {
	t.Helper()
	r, err := value_objects.NewTimeRange(start, start.Add(time.Duration(minutes)*time.Minute))
	require.NoError(t, err)
	return r
}

func newTask(t *testing.T) *task.Task {
	t.Helper()
	tsk, err := task.NewTask(uuid.New(), "Write report", timeRange(t, morning, 90))
	require.NoError(t, err)
	tsk.ClearDomainEvents()
	return tsk
}

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	tsk, err := task.NewTask(userID, "  Write report  ", timeRange(t, morning, 90))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tsk.ID())
	assert.Equal(t, userID, tsk.UserID())
	assert.Equal(t, "Write report", tsk.Title())
	assert.Equal(t, task.StatusPending, tsk.Status())
	assert.Equal(t, value_objects.CategoryOther, tsk.Category())
	assert.Equal(t, value_objects.PriorityMedium, tsk.Priority())
	assert.Equal(t, 3, tsk.Difficulty().Value())
	assert.Equal(t, 3, tsk.FocusLevel().Value())
	assert.Equal(t, 90, tsk.DurationMinutes())
	assert.Nil(t, tsk.CompletedAt())
	assert.Empty(t, tsk.Tags())
}

func TestNewTask_EmitsCreatedEvent(t *testing.T) {
	userID := uuid.New()
	tsk, err := task.NewTask(userID, "Test Task", timeRange(t, morning, 30))
	require.NoError(t, err)

	events := tsk.DomainEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(*task.TaskCreated)
	require.True(t, ok)
	assert.Equal(t, tsk.ID(), created.AggregateID())
	assert.Equal(t, task.RoutingKeyCreated, created.RoutingKey())
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, morning, created.StartTime)
	assert.Equal(t, "Test Task", created.Title)
}

func TestNewTask_InvalidTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  error
	}{
		{"empty", "", task.ErrEmptyTitle},
		{"blank", " \t\n", task.ErrEmptyTitle},
		{"too long", strings.Repeat("a", task.MaxTitleLength+1), task.ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := task.NewTask(uuid.New(), tt.title, timeRange(t, morning, 10))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewTask_RequiresTimeRange(t *testing.T) {
	_, err := task.NewTask(uuid.New(), "x", value_objects.TimeRange{})
	assert.ErrorIs(t, err, task.ErrInvalidTimeRange)
}

func TestTask_Setters(t *testing.T) {
	tsk := newTask(t)

	require.NoError(t, tsk.SetCategory(value_objects.CategoryLearning))
	require.NoError(t, tsk.SetPriority(value_objects.PriorityHigh))
	d, _ := value_objects.NewDifficulty(5)
	require.NoError(t, tsk.SetDifficulty(d))
	f, _ := value_objects.NewFocusLevel(1)
	require.NoError(t, tsk.SetFocusLevel(f))
	require.NoError(t, tsk.SetTags([]string{"go", " ", "go", "books"}))
	require.NoError(t, tsk.SetNotes("chapter 3"))
	require.NoError(t, tsk.Reschedule(timeRange(t, morning.AddDate(0, 0, 1), 45)))

	assert.Equal(t, value_objects.CategoryLearning, tsk.Category())
	assert.Equal(t, value_objects.PriorityHigh, tsk.Priority())
	assert.Equal(t, 5, tsk.Difficulty().Value())
	assert.Equal(t, 1, tsk.FocusLevel().Value())
	assert.Equal(t, []string{"go", "books"}, tsk.Tags())
	assert.Equal(t, "chapter 3", tsk.Notes())
	assert.Equal(t, 45, tsk.DurationMinutes())
	assert.Equal(t, morning.AddDate(0, 0, 1), tsk.StartTime())
	assert.Empty(t, tsk.DomainEvents())

	assert.ErrorIs(t, tsk.SetCategory(value_objects.Category(99)), task.ErrInvalidCategory)
	assert.ErrorIs(t, tsk.SetPriority(value_objects.Priority(0)), task.ErrInvalidPriority)
	assert.ErrorIs(t, tsk.SetDescription(strings.Repeat("d", task.MaxDescriptionLength+1)), task.ErrDescriptionTooLong)
	assert.ErrorIs(t, tsk.SetNotes(strings.Repeat("n", task.MaxNotesLength+1)), task.ErrNotesTooLong)
}

func TestTask_RecordUpdate(t *testing.T) {
	tsk := newTask(t)
	previous := tsk.StartTime()

	tsk.RecordUpdate(nil, nil)
	assert.Empty(t, tsk.DomainEvents())

	require.NoError(t, tsk.Reschedule(timeRange(t, morning.AddDate(0, 0, 2), 30)))
	tsk.RecordUpdate([]string{"time_range"}, &previous)

	events := tsk.DomainEvents()
	require.Len(t, events, 1)
	updated, ok := events[0].(*task.TaskUpdated)
	require.True(t, ok)
	assert.Equal(t, []string{"time_range"}, updated.Fields)
	assert.Equal(t, morning.AddDate(0, 0, 2), updated.StartTime)
	require.NotNil(t, updated.PreviousStartTime)
	assert.Equal(t, morning, *updated.PreviousStartTime)
}

func TestTask_Lifecycle(t *testing.T) {
	t.Run("start then complete", func(t *testing.T) {
		tsk := newTask(t)

		require.NoError(t, tsk.Start())
		assert.Equal(t, task.StatusInProgress, tsk.Status())
		require.NoError(t, tsk.Start())

		require.NoError(t, tsk.Complete())
		assert.True(t, tsk.IsCompleted())
		require.NotNil(t, tsk.CompletedAt())

		events := tsk.DomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, task.RoutingKeyStarted, events[0].RoutingKey())
		assert.Equal(t, task.RoutingKeyCompleted, events[1].RoutingKey())

		assert.ErrorIs(t, tsk.Complete(), task.ErrTaskAlreadyComplete)
		assert.ErrorIs(t, tsk.Start(), task.ErrTaskAlreadyComplete)
	})

	t.Run("cancel blocks changes", func(t *testing.T) {
		tsk := newTask(t)

		require.NoError(t, tsk.Cancel())
		require.NoError(t, tsk.Cancel())
		assert.True(t, tsk.IsCancelled())
		assert.Len(t, tsk.DomainEvents(), 1)

		assert.ErrorIs(t, tsk.Complete(), task.ErrTaskCancelled)
		assert.ErrorIs(t, tsk.Start(), task.ErrTaskCancelled)
		assert.ErrorIs(t, tsk.SetTitle("new"), task.ErrTaskCancelled)
	})

	t.Run("delete raises event with start time", func(t *testing.T) {
		tsk := newTask(t)
		tsk.MarkDeleted()

		events := tsk.DomainEvents()
		require.Len(t, events, 1)
		deleted, ok := events[0].(*task.TaskDeleted)
		require.True(t, ok)
		assert.Equal(t, tsk.UserID(), deleted.UserID)
		assert.Equal(t, morning, deleted.StartTime)
	})
}

func TestParseStatus(t *testing.T) {
	for _, s := range []task.Status{task.StatusPending, task.StatusInProgress, task.StatusCompleted, task.StatusCancelled} {
		got, err := task.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := task.ParseStatus("archived")
	assert.Error(t, err)
}
