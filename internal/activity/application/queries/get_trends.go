package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/google/uuid"
)

// GetTrendsQuery asks for the recorded days of the last PeriodDays days.
type GetTrendsQuery struct {
	UserID     uuid.UUID
	PeriodDays int
	Now        time.Time
}

// GetTrendsHandler handles trends queries.
type GetTrendsHandler struct {
	repo     domain.ActivityRepository
	location *time.Location
}

// NewGetTrendsHandler creates a new get trends handler.
func NewGetTrendsHandler(repo domain.ActivityRepository, location *time.Location) *GetTrendsHandler {
	return &GetTrendsHandler{repo: repo, location: orLocal(location)}
}

// Handle executes the trends query. A period of zero or less means 30 days.
func (h *GetTrendsHandler) Handle(ctx context.Context, query GetTrendsQuery) (*domain.Trends, error) {
	period, err := domain.NormalizeTrendPeriod(query.PeriodDays)
	if err != nil {
		return nil, fmt.Errorf("%w: period of %d days", err, query.PeriodDays)
	}

	start, end := domain.TrendWindow(period, query.Now, h.location)
	records, err := h.repo.FindRange(ctx, query.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load trend activities: %w", err)
	}
	return domain.BuildTrends(records, period, query.Now, h.location), nil
}
