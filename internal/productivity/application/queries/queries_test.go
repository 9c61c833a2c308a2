package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByUserID(ctx context.Context, userID uuid.UUID, filter task.ListFilter) ([]*task.Task, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindStartingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func createTestTask(t *testing.T, userID uuid.UUID, title, category, priority string) *task.Task {
	t.Helper()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r, err := value_objects.NewTimeRange(start, start.Add(time.Hour))
	require.NoError(t, err)
	tsk, err := task.NewTask(userID, title, r)
	require.NoError(t, err)
	c, err := value_objects.ParseCategory(category)
	require.NoError(t, err)
	require.NoError(t, tsk.SetCategory(c))
	p, err := value_objects.ParsePriority(priority)
	require.NoError(t, err)
	require.NoError(t, tsk.SetPriority(p))
	return tsk
}

func TestListTasksHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("passes day and status to the repository", func(t *testing.T) {
		repo := new(mockTaskRepo)
		day := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
		completed := task.StatusCompleted
		want := task.ListFilter{
			From:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			To:     time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Status: &completed,
			Limit:  10,
		}
		repo.On("FindByUserID", ctx, userID, want).Return([]*task.Task{createTestTask(t, userID, "A", "work", "high")}, nil)

		result, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{
			UserID:   userID,
			Day:      &day,
			Location: time.UTC,
			Status:   "completed",
			Limit:    10,
		})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "A", result[0].Title)
		assert.Equal(t, 60, result[0].DurationMinutes)
		repo.AssertExpectations(t)
	})

	t.Run("filters category and priority in memory", func(t *testing.T) {
		repo := new(mockTaskRepo)
		tasks := []*task.Task{
			createTestTask(t, userID, "Work high", "work", "high"),
			createTestTask(t, userID, "Work low", "work", "low"),
			createTestTask(t, userID, "Health high", "health", "high"),
		}
		repo.On("FindByUserID", ctx, userID, task.ListFilter{}).Return(tasks, nil)

		result, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{
			UserID:   userID,
			Category: "work",
			Priority: "high",
			Limit:    5,
		})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Work high", result[0].Title)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		repo := new(mockTaskRepo)
		_, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{UserID: userID, Status: "archived"})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("returns owned task", func(t *testing.T) {
		repo := new(mockTaskRepo)
		tsk := createTestTask(t, userID, "Mine", "personal", "low")
		repo.On("FindByID", ctx, tsk.ID()).Return(tsk, nil)

		dto, err := NewGetTaskHandler(repo).Handle(ctx, GetTaskQuery{TaskID: tsk.ID(), UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, tsk.ID(), dto.ID)
		assert.Equal(t, "personal", dto.Category)
		assert.Equal(t, "low", dto.Priority)
		assert.Equal(t, "pending", dto.Status)
	})

	t.Run("hides other users' tasks", func(t *testing.T) {
		repo := new(mockTaskRepo)
		tsk := createTestTask(t, uuid.New(), "Theirs", "work", "medium")
		repo.On("FindByID", ctx, tsk.ID()).Return(tsk, nil)

		_, err := NewGetTaskHandler(repo).Handle(ctx, GetTaskQuery{TaskID: tsk.ID(), UserID: userID})

		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(mockTaskRepo)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, task.ErrTaskNotFound)

		_, err := NewGetTaskHandler(repo).Handle(ctx, GetTaskQuery{TaskID: id, UserID: userID})

		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}
