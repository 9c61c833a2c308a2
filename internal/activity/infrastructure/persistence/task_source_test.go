package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/activity/infrastructure/persistence"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/value_objects"
	taskPersistence "github.com/felixgeelhaar/pulse/internal/productivity/infrastructure/persistence"
)

func TestTaskSource_TasksStartingBetween(t *testing.T) {
	ctx := context.Background()
	tasks := taskPersistence.NewTaskRepository(setupSQLiteTestDB(t))
	source := persistence.NewTaskSource(tasks)

	userID := uuid.New()
	start := day(9).Add(8 * time.Hour)
	tr, err := value_objects.NewTimeRange(start, start.Add(150*time.Minute))
	require.NoError(t, err)

	tk, err := task.NewTask(userID, "Deep work", tr)
	require.NoError(t, err)
	require.NoError(t, tk.SetCategory(value_objects.CategoryLearning))
	require.NoError(t, tk.SetPriority(value_objects.PriorityLow))
	focus, err := value_objects.NewFocusLevel(5)
	require.NoError(t, err)
	require.NoError(t, tk.SetFocusLevel(focus))
	require.NoError(t, tk.Complete())
	require.NoError(t, tasks.Save(ctx, tk))

	records, err := source.TasksStartingBetween(ctx, userID, day(9), day(10))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, tk.ID(), r.ID)
	assert.Equal(t, domain.CategoryLearning, r.Category)
	assert.Equal(t, domain.PriorityLow, r.Priority)
	assert.Equal(t, 3, r.Difficulty)
	assert.Equal(t, 5, r.FocusLevel)
	assert.True(t, r.Completed)
	assert.Equal(t, 150, r.DurationMinutes)
	assert.True(t, start.Equal(r.StartTime))

	none, err := source.TasksStartingBetween(ctx, userID, day(10), day(11))
	require.NoError(t, err)
	assert.Empty(t, none)
}
