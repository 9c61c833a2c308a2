package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

// BreakerConfig tunes the circuit breaker around a remote cache.
type BreakerConfig struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
}

// BreakerSummaryCache trips after MaxFailures consecutive cache failures.
// While open, reads report a miss and writes are skipped.
type BreakerSummaryCache struct {
	next    domain.SummaryCache
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBreakerSummaryCache wraps next with a circuit breaker.
func NewBreakerSummaryCache(next domain.SummaryCache, cfg BreakerConfig, logger *slog.Logger) *BreakerSummaryCache {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "summary-cache"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("summary cache breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerSummaryCache{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

// State exposes the breaker state for health reporting.
func (c *BreakerSummaryCache) State() gobreaker.State {
	return c.breaker.State()
}

type lookup[T any] struct {
	value *T
	hit   bool
}

// Generation reports 0 while the breaker is open.
func (c *BreakerSummaryCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		return c.next.Generation(ctx, userID)
	})
	if err != nil {
		return 0, openAsMiss(err)
	}
	return res.(int64), nil
}

func (c *BreakerSummaryCache) GetWeekly(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.WeeklySummary, bool, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		v, ok, err := c.next.GetWeekly(ctx, userID, day)
		return lookup[domain.WeeklySummary]{value: v, hit: ok}, err
	})
	if err != nil {
		return nil, false, openAsMiss(err)
	}
	l := res.(lookup[domain.WeeklySummary])
	return l.value, l.hit, nil
}

func (c *BreakerSummaryCache) SetWeekly(ctx context.Context, userID uuid.UUID, gen int64, day time.Time, summary *domain.WeeklySummary) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.next.SetWeekly(ctx, userID, gen, day, summary)
	})
	return openAsMiss(err)
}

func (c *BreakerSummaryCache) GetMonthly(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*domain.MonthlySummary, bool, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		v, ok, err := c.next.GetMonthly(ctx, userID, year, month)
		return lookup[domain.MonthlySummary]{value: v, hit: ok}, err
	})
	if err != nil {
		return nil, false, openAsMiss(err)
	}
	l := res.(lookup[domain.MonthlySummary])
	return l.value, l.hit, nil
}

func (c *BreakerSummaryCache) SetMonthly(ctx context.Context, userID uuid.UUID, gen int64, year int, month time.Month, summary *domain.MonthlySummary) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.next.SetMonthly(ctx, userID, gen, year, month, summary)
	})
	return openAsMiss(err)
}

// InvalidateUser always reaches the wrapped cache, even while the breaker is
// open.
func (c *BreakerSummaryCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return c.next.InvalidateUser(ctx, userID)
}

// openAsMiss hides the breaker's own rejections; failures of the wrapped
// cache still surface.
func openAsMiss(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil
	}
	return err
}
