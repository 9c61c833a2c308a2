package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/google/uuid"
)

// GetProductivityContextQuery asks for the assistant digest of the week
// ending on Now.
type GetProductivityContextQuery struct {
	UserID uuid.UUID
	Now    time.Time
}

// GetProductivityContextHandler handles productivity context queries.
type GetProductivityContextHandler struct {
	repo     domain.ActivityRepository
	location *time.Location
}

// NewGetProductivityContextHandler creates a new productivity context handler.
func NewGetProductivityContextHandler(repo domain.ActivityRepository, location *time.Location) *GetProductivityContextHandler {
	return &GetProductivityContextHandler{repo: repo, location: orLocal(location)}
}

func (h *GetProductivityContextHandler) Handle(ctx context.Context, query GetProductivityContextQuery) (*domain.ProductivityContext, error) {
	start, end := domain.WeekWindow(query.Now, h.location)
	records, err := h.repo.FindRange(ctx, query.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load context activities: %w", err)
	}
	return domain.BuildProductivityContext(records, query.Now, h.location), nil
}
