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

// GetMonthlySummaryQuery asks for one calendar month.
type GetMonthlySummaryQuery struct {
	UserID uuid.UUID
	Year   int
	Month  int
}

// GetMonthlySummaryHandler handles monthly summary queries.
type GetMonthlySummaryHandler struct {
	repo     domain.ActivityRepository
	cache    domain.SummaryCache
	location *time.Location
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewGetMonthlySummaryHandler creates a new monthly summary handler.
func NewGetMonthlySummaryHandler(
	repo domain.ActivityRepository,
	cache domain.SummaryCache,
	location *time.Location,
	logger *slog.Logger,
	metrics observability.Metrics,
) *GetMonthlySummaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &GetMonthlySummaryHandler{
		repo:     repo,
		cache:    cache,
		location: orLocal(location),
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle executes the monthly summary query.
func (h *GetMonthlySummaryHandler) Handle(ctx context.Context, query GetMonthlySummaryQuery) (*domain.MonthlySummary, error) {
	if err := domain.ValidateMonth(query.Year, query.Month); err != nil {
		return nil, err
	}
	month := time.Month(query.Month)

	gen, cacheable := readGeneration(ctx, h.cache, h.logger, h.metrics, "monthly", query.UserID)
	if cacheable {
		cached, ok, err := h.cache.GetMonthly(ctx, query.UserID, query.Year, month)
		if recordLookup(ctx, h.logger, h.metrics, "monthly", ok, err) {
			return cached, nil
		}
	}

	first, last := domain.MonthRange(query.Year, month, h.location)
	records, err := h.repo.FindRange(ctx, query.UserID, first, last)
	if err != nil {
		return nil, fmt.Errorf("load monthly activities: %w", err)
	}
	summary := domain.BuildMonthly(records, query.Year, month)

	if cacheable {
		if err := h.cache.SetMonthly(ctx, query.UserID, gen, query.Year, month, summary); err != nil {
			recordStoreFailure(ctx, h.logger, h.metrics, "monthly", err)
		}
	}
	return summary, nil
}
