package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/google/uuid"
)

// GetActivityQuery fetches the rollup of one day.
type GetActivityQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// GetActivityHandler handles get activity queries.
type GetActivityHandler struct {
	repo     domain.ActivityRepository
	location *time.Location
}

// NewGetActivityHandler creates a new get activity handler.
func NewGetActivityHandler(repo domain.ActivityRepository, location *time.Location) *GetActivityHandler {
	return &GetActivityHandler{repo: repo, location: orLocal(location)}
}

// Handle returns domain.ErrActivityNotFound when the day has no rollup.
func (h *GetActivityHandler) Handle(ctx context.Context, query GetActivityQuery) (*domain.Activity, error) {
	return h.repo.FindByDate(ctx, query.UserID, domain.StartOfDay(query.Date, h.location))
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
