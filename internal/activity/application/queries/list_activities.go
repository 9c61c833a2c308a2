package queries

import (
	"context"
	"slices"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/google/uuid"
)

// ListActivitiesQuery lists the rollups between two days, both included.
type ListActivitiesQuery struct {
	UserID      uuid.UUID
	Start       time.Time
	End         time.Time
	NewestFirst bool
}

// ListActivitiesHandler handles list activities queries.
type ListActivitiesHandler struct {
	repo     domain.ActivityRepository
	location *time.Location
}

// NewListActivitiesHandler creates a new list activities handler.
func NewListActivitiesHandler(repo domain.ActivityRepository, location *time.Location) *ListActivitiesHandler {
	return &ListActivitiesHandler{repo: repo, location: orLocal(location)}
}

// Handle executes the list query. Results are oldest first unless
// NewestFirst is set.
func (h *ListActivitiesHandler) Handle(ctx context.Context, query ListActivitiesQuery) ([]*domain.Activity, error) {
	start := domain.StartOfDay(query.Start, h.location)
	end := domain.StartOfDay(query.End, h.location)
	if err := domain.ValidateRange(start, end); err != nil {
		return nil, err
	}

	activities, err := h.repo.FindRange(ctx, query.UserID, start, end)
	if err != nil {
		return nil, err
	}
	if query.NewestFirst {
		slices.Reverse(activities)
	}
	return activities, nil
}
