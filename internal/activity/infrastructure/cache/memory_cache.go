package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// MemorySummaryCache keeps summaries in process memory. Values are copied on
// the way in and out so callers cannot mutate cached state.
type MemorySummaryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
	gens    map[uuid.UUID]int64
}

// NewMemorySummaryCache creates an in-memory cache. A non-positive ttl uses
// DefaultTTL.
func NewMemorySummaryCache(ttl time.Duration) *MemorySummaryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemorySummaryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
		gens:    make(map[uuid.UUID]int64),
	}
}

func (c *MemorySummaryCache) Generation(_ context.Context, userID uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID], nil
}

func (c *MemorySummaryCache) GetWeekly(_ context.Context, userID uuid.UUID, day time.Time) (*domain.WeeklySummary, bool, error) {
	v, ok := c.get(weeklyKey(userID, day))
	if !ok {
		return nil, false, nil
	}
	return copyWeekly(v.(*domain.WeeklySummary)), true, nil
}

func (c *MemorySummaryCache) SetWeekly(_ context.Context, userID uuid.UUID, gen int64, day time.Time, summary *domain.WeeklySummary) error {
	c.set(userID, gen, weeklyKey(userID, day), copyWeekly(summary))
	return nil
}

func (c *MemorySummaryCache) GetMonthly(_ context.Context, userID uuid.UUID, year int, month time.Month) (*domain.MonthlySummary, bool, error) {
	v, ok := c.get(monthlyKey(userID, year, month))
	if !ok {
		return nil, false, nil
	}
	return copyMonthly(v.(*domain.MonthlySummary)), true, nil
}

func (c *MemorySummaryCache) SetMonthly(_ context.Context, userID uuid.UUID, gen int64, year int, month time.Month, summary *domain.MonthlySummary) error {
	c.set(userID, gen, monthlyKey(userID, year, month), copyMonthly(summary))
	return nil
}

func (c *MemorySummaryCache) InvalidateUser(_ context.Context, userID uuid.UUID) error {
	prefix := userPrefix(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len returns the number of live entries.
func (c *MemorySummaryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

func (c *MemorySummaryCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemorySummaryCache) set(userID uuid.UUID, gen int64, key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[userID] != gen {
		return
	}
	c.entries[key] = entry{value: v, expiresAt: c.now().Add(c.ttl)}
}

func copyWeekly(s *domain.WeeklySummary) *domain.WeeklySummary {
	if s == nil {
		return nil
	}
	out := *s
	out.DailyData = append([]domain.DailyPoint(nil), s.DailyData...)
	if s.BestDay != nil {
		best := *s.BestDay
		out.BestDay = &best
	}
	if s.HighestHoursDay != nil {
		highest := *s.HighestHoursDay
		out.HighestHoursDay = &highest
	}
	return &out
}

func copyMonthly(s *domain.MonthlySummary) *domain.MonthlySummary {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
