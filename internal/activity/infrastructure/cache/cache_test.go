package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

var (
	testDay = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	weekly  = &domain.WeeklySummary{
		StartDate:           "2026-03-03",
		EndDate:             "2026-03-09",
		TotalTasks:          12,
		TotalHours:          17.3,
		AverageProductivity: 64,
		CurrentStreak:       3,
		BestDay:             &domain.DayScore{Date: "2026-03-05", Score: 90},
		DailyData:           []domain.DailyPoint{{Date: "2026-03-05"}},
	}
	monthly = &domain.MonthlySummary{Year: 2026, Month: 3, TotalTasks: 40, ActiveDays: 9}
)

func TestKeys(t *testing.T) {
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	assert.Equal(t, "pulse:summary:11111111-1111-1111-1111-111111111111:weekly:2026-03-09", weeklyKey(userID, testDay))
	assert.Equal(t, "pulse:summary:11111111-1111-1111-1111-111111111111:monthly:2026-03", monthlyKey(userID, 2026, time.March))
	assert.Equal(t, "pulse:summary:11111111-1111-1111-1111-111111111111:keys", indexKey(userID))
	assert.Equal(t, "pulse:summary:11111111-1111-1111-1111-111111111111:gen", genKey(userID))
}

func TestMemorySummaryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySummaryCache(time.Minute)
	userID := uuid.New()

	_, ok, err := c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetWeekly(ctx, userID, 0, testDay, weekly))
	require.NoError(t, c.SetMonthly(ctx, userID, 0, 2026, time.March, monthly))

	got, ok, err := c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, weekly, got)

	got.BestDay.Score = 1
	again, _, _ := c.GetWeekly(ctx, userID, testDay)
	assert.Equal(t, 90, again.BestDay.Score, "cached value is isolated from callers")

	m, ok, err := c.GetMonthly(ctx, userID, 2026, time.March)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, monthly, m)

	_, ok, _ = c.GetMonthly(ctx, userID, 2026, time.April)
	assert.False(t, ok)
}

func TestMemorySummaryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySummaryCache(time.Minute)
	now := testDay
	c.now = func() time.Time { return now }
	userID := uuid.New()

	require.NoError(t, c.SetWeekly(ctx, userID, 0, testDay, weekly))
	assert.Equal(t, 1, c.Len())

	now = now.Add(time.Minute)
	_, ok, err := c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemorySummaryCache_InvalidateUser(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySummaryCache(0)
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, c.SetWeekly(ctx, alice, 0, testDay, weekly))
	require.NoError(t, c.SetMonthly(ctx, alice, 0, 2026, time.March, monthly))
	require.NoError(t, c.SetWeekly(ctx, bob, 0, testDay, weekly))

	require.NoError(t, c.InvalidateUser(ctx, alice))

	_, ok, _ := c.GetWeekly(ctx, alice, testDay)
	assert.False(t, ok)
	_, ok, _ = c.GetMonthly(ctx, alice, 2026, time.March)
	assert.False(t, ok)
	_, ok, _ = c.GetWeekly(ctx, bob, testDay)
	assert.True(t, ok)
}

func TestMemorySummaryCache_DropsStaleGeneration(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySummaryCache(time.Minute)
	userID := uuid.New()

	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.InvalidateUser(ctx, userID))
	require.NoError(t, c.SetWeekly(ctx, userID, gen, testDay, weekly))
	require.NoError(t, c.SetMonthly(ctx, userID, gen, 2026, time.March, monthly))

	_, ok, _ := c.GetWeekly(ctx, userID, testDay)
	assert.False(t, ok, "a write from before the invalidation is dropped")
	_, ok, _ = c.GetMonthly(ctx, userID, 2026, time.March)
	assert.False(t, ok)

	current, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)
	require.NoError(t, c.SetWeekly(ctx, userID, current, testDay, weekly))
	_, ok, _ = c.GetWeekly(ctx, userID, testDay)
	assert.True(t, ok)
}

// failingCache fails every call until healed.
type failingCache struct {
	calls int
	err   error
}

func (f *failingCache) Generation(context.Context, uuid.UUID) (int64, error) {
	f.calls++
	return 0, f.err
}

func (f *failingCache) GetWeekly(context.Context, uuid.UUID, time.Time) (*domain.WeeklySummary, bool, error) {
	f.calls++
	return nil, false, f.err
}

func (f *failingCache) SetWeekly(context.Context, uuid.UUID, int64, time.Time, *domain.WeeklySummary) error {
	f.calls++
	return f.err
}

func (f *failingCache) GetMonthly(context.Context, uuid.UUID, int, time.Month) (*domain.MonthlySummary, bool, error) {
	f.calls++
	return nil, false, f.err
}

func (f *failingCache) SetMonthly(context.Context, uuid.UUID, int64, int, time.Month, *domain.MonthlySummary) error {
	f.calls++
	return f.err
}

func (f *failingCache) InvalidateUser(context.Context, uuid.UUID) error {
	f.calls++
	return f.err
}

func TestBreakerSummaryCache_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	inner := &failingCache{err: errors.New("connection refused")}
	c := NewBreakerSummaryCache(inner, BreakerConfig{MaxFailures: 2, Timeout: time.Hour}, nil)
	userID := uuid.New()

	_, _, err := c.GetWeekly(ctx, userID, testDay)
	assert.Error(t, err)
	err = c.SetMonthly(ctx, userID, 0, 2026, time.March, monthly)
	assert.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, c.State())

	v, ok, err := c.GetWeekly(ctx, userID, testDay)
	assert.NoError(t, err, "open breaker reads as a miss")
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.NoError(t, c.SetWeekly(ctx, userID, 0, testDay, weekly))
	assert.Equal(t, 2, inner.calls, "open breaker does not reach the cache")

	assert.Error(t, c.InvalidateUser(ctx, userID))
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerSummaryCache_Generation(t *testing.T) {
	ctx := context.Background()
	inner := NewMemorySummaryCache(time.Minute)
	c := NewBreakerSummaryCache(inner, BreakerConfig{}, nil)
	userID := uuid.New()

	require.NoError(t, c.InvalidateUser(ctx, userID))
	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	failing := NewBreakerSummaryCache(&failingCache{err: errors.New("timeout")}, BreakerConfig{MaxFailures: 1, Timeout: time.Hour}, nil)
	_, err = failing.Generation(ctx, userID)
	assert.Error(t, err)
	gen, err = failing.Generation(ctx, userID)
	assert.NoError(t, err, "open breaker reports generation 0")
	assert.Equal(t, int64(0), gen)
}

func TestBreakerSummaryCache_PassesThroughHits(t *testing.T) {
	ctx := context.Background()
	c := NewBreakerSummaryCache(NewMemorySummaryCache(time.Minute), BreakerConfig{}, nil)
	userID := uuid.New()

	require.NoError(t, c.SetWeekly(ctx, userID, 0, testDay, weekly))
	got, ok, err := c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, weekly.TotalTasks, got.TotalTasks)

	_, ok, err = c.GetMonthly(ctx, userID, 2026, time.March)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, gobreaker.StateClosed, c.State())
}

func TestRedisSummaryCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Failed to ping redis: %v", err)
	}

	c := NewRedisSummaryCache(client, time.Minute)
	userID := uuid.New()

	_, ok, err := c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetWeekly(ctx, userID, 0, testDay, weekly))
	require.NoError(t, c.SetMonthly(ctx, userID, 0, 2026, time.March, monthly))

	got, ok, err := c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, weekly, got)

	require.NoError(t, c.InvalidateUser(ctx, userID))
	_, ok, err = c.GetMonthly(ctx, userID, 2026, time.March)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	require.NoError(t, c.SetWeekly(ctx, userID, 0, testDay, weekly))
	_, ok, err = c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	assert.False(t, ok, "stale generation is not written")

	require.NoError(t, c.SetWeekly(ctx, userID, gen, testDay, weekly))
	_, ok, err = c.GetWeekly(ctx, userID, testDay)
	require.NoError(t, err)
	assert.True(t, ok)
}
