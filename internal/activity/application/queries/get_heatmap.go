package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/google/uuid"
)

// GetHeatmapQuery asks for the heatmap of a month.
type GetHeatmapQuery struct {
	UserID uuid.UUID
	Year   int
	Month  int
}

// GetHeatmapHandler handles heatmap queries.
type GetHeatmapHandler struct {
	repo     domain.ActivityRepository
	location *time.Location
}

// NewGetHeatmapHandler creates a new heatmap handler.
func NewGetHeatmapHandler(repo domain.ActivityRepository, location *time.Location) *GetHeatmapHandler {
	return &GetHeatmapHandler{repo: repo, location: orLocal(location)}
}

// Handle returns one cell per day of the month.
func (h *GetHeatmapHandler) Handle(ctx context.Context, query GetHeatmapQuery) ([]domain.HeatmapCell, error) {
	if err := domain.ValidateMonth(query.Year, query.Month); err != nil {
		return nil, err
	}
	month := time.Month(query.Month)

	first, last := domain.MonthRange(query.Year, month, h.location)
	records, err := h.repo.FindRange(ctx, query.UserID, first, last)
	if err != nil {
		return nil, fmt.Errorf("load heatmap activities: %w", err)
	}
	return domain.BuildHeatmap(query.Year, month, records), nil
}
