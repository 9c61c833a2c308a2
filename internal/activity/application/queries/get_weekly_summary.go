package queries

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/pkg/observability"
	"github.com/google/uuid"
)

// GetWeeklySummaryQuery asks for the seven days ending on Now.
type GetWeeklySummaryQuery struct {
	UserID uuid.UUID
	Now    time.Time
}

// GetWeeklySummaryHandler handles weekly summary queries.
type GetWeeklySummaryHandler struct {
	repo     domain.ActivityRepository
	cache    domain.SummaryCache
	location *time.Location
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewGetWeeklySummaryHandler creates a new weekly summary handler. cache
// may be nil.
func NewGetWeeklySummaryHandler(
	repo domain.ActivityRepository,
	cache domain.SummaryCache,
	location *time.Location,
	logger *slog.Logger,
	metrics observability.Metrics,
) *GetWeeklySummaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &GetWeeklySummaryHandler{
		repo:     repo,
		cache:    cache,
		location: orLocal(location),
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle executes the weekly summary query.
func (h *GetWeeklySummaryHandler) Handle(ctx context.Context, query GetWeeklySummaryQuery) (*domain.WeeklySummary, error) {
	today := domain.StartOfDay(query.Now, h.location)

	gen, cacheable := readGeneration(ctx, h.cache, h.logger, h.metrics, "weekly", query.UserID)
	if cacheable {
		cached, ok, err := h.cache.GetWeekly(ctx, query.UserID, today)
		if recordLookup(ctx, h.logger, h.metrics, "weekly", ok, err) {
			return cached, nil
		}
	}

	// The streak can run past the weekly window, so read a year back.
	records, err := h.repo.FindRange(ctx, query.UserID, today.AddDate(0, 0, -domain.StreakLookbackDays), today)
	if err != nil {
		return nil, fmt.Errorf("load weekly activities: %w", err)
	}
	summary := domain.BuildWeekly(records, today, h.location)

	if cacheable {
		if err := h.cache.SetWeekly(ctx, query.UserID, gen, today, summary); err != nil {
			recordStoreFailure(ctx, h.logger, h.metrics, "weekly", err)
		}
	}
	return summary, nil
}

// readGeneration fetches the cache generation before records are loaded. A
// failed read disables the cache for this query.
func readGeneration(ctx context.Context, cache domain.SummaryCache, logger *slog.Logger, metrics observability.Metrics, kind string, userID uuid.UUID) (int64, bool) {
	if cache == nil {
		return 0, false
	}
	gen, err := cache.Generation(ctx, userID)
	if err != nil {
		metrics.Counter(observability.MetricSummaryCacheError, 1, observability.T("summary", kind))
		logger.WarnContext(ctx, "summary cache generation read failed, bypassing cache",
			"summary", kind,
			"error", err,
		)
		return 0, false
	}
	return gen, true
}

// recordLookup logs and counts a cache read. It reports whether the cached
// value should be served.
func recordLookup(ctx context.Context, logger *slog.Logger, metrics observability.Metrics, kind string, hit bool, err error) bool {
	tag := observability.T("summary", kind)
	switch {
	case err != nil:
		metrics.Counter(observability.MetricSummaryCacheError, 1, tag)
		logger.WarnContext(ctx, "summary cache read failed, falling back to store",
			"summary", kind,
			"error", err,
		)
		return false
	case hit:
		metrics.Counter(observability.MetricSummaryCacheHit, 1, tag)
		return true
	default:
		metrics.Counter(observability.MetricSummaryCacheMiss, 1, tag)
		return false
	}
}

func recordStoreFailure(ctx context.Context, logger *slog.Logger, metrics observability.Metrics, kind string, err error) {
	metrics.Counter(observability.MetricSummaryCacheError, 1, observability.T("summary", kind))
	logger.WarnContext(ctx, "summary cache write failed",
		"summary", kind,
		"error", err,
	)
}
