package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) Upsert(ctx context.Context, a *domain.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockActivityRepo) SaveNotes(ctx context.Context, a *domain.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockActivityRepo) FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Activity, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *mockActivityRepo) FindRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Activity, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Activity), args.Error(1)
}

func (m *mockActivityRepo) Delete(ctx context.Context, userID uuid.UUID, date time.Time) error {
	return m.Called(ctx, userID, date).Error(0)
}

type mockTaskSource struct {
	mock.Mock
}

func (m *mockTaskSource) TasksStartingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.TaskRecord, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskRecord), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	gen, _ := args.Get(0).(int64)
	return gen, args.Error(1)
}

func (m *mockCache) GetWeekly(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.WeeklySummary, bool, error) {
	args := m.Called(ctx, userID, day)
	s, _ := args.Get(0).(*domain.WeeklySummary)
	return s, args.Bool(1), args.Error(2)
}

func (m *mockCache) SetWeekly(ctx context.Context, userID uuid.UUID, gen int64, day time.Time, s *domain.WeeklySummary) error {
	return m.Called(ctx, userID, gen, day, s).Error(0)
}

func (m *mockCache) GetMonthly(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*domain.MonthlySummary, bool, error) {
	args := m.Called(ctx, userID, year, month)
	s, _ := args.Get(0).(*domain.MonthlySummary)
	return s, args.Bool(1), args.Error(2)
}

func (m *mockCache) SetMonthly(ctx context.Context, userID uuid.UUID, gen int64, year int, month time.Month, s *domain.MonthlySummary) error {
	return m.Called(ctx, userID, gen, year, month, s).Error(0)
}

func (m *mockCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
