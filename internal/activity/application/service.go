// Package application contains the application layer for the activity
// bounded context.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/application/commands"
	"github.com/felixgeelhaar/pulse/internal/activity/application/queries"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/pkg/observability"
	"github.com/google/uuid"
)

// Clock returns the current time.
type Clock func() time.Time

// ServiceConfig carries the optional collaborators of the service.
type ServiceConfig struct {
	Location *time.Location
	Clock    Clock
	Logger   *slog.Logger
	Metrics  observability.Metrics
}

// Service provides a facade over all activity handlers.
type Service struct {
	location *time.Location
	clock    Clock

	// Command handlers
	recomputeHandler *commands.RecomputeDailyActivityHandler
	setNotesHandler  *commands.SetActivityNotesHandler

	// Query handlers
	getActivityHandler    *queries.GetActivityHandler
	listActivitiesHandler *queries.ListActivitiesHandler
	weeklyHandler         *queries.GetWeeklySummaryHandler
	monthlyHandler        *queries.GetMonthlySummaryHandler
	trendsHandler         *queries.GetTrendsHandler
	heatmapHandler        *queries.GetHeatmapHandler
	contextHandler        *queries.GetProductivityContextHandler
}

// NewService creates a new activity service. cache may be nil.
func NewService(
	repo domain.ActivityRepository,
	tasks domain.TaskSource,
	cache domain.SummaryCache,
	cfg ServiceConfig,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	locks := sharedApplication.NewKeyedMutex()
	loc := cfg.Location

	return &Service{
		location: loc,
		clock:    cfg.Clock,

		recomputeHandler: commands.NewRecomputeDailyActivityHandler(repo, tasks, cache, locks, loc, cfg.Logger, cfg.Metrics),
		setNotesHandler:  commands.NewSetActivityNotesHandler(repo, cache, locks, loc, cfg.Logger),

		getActivityHandler:    queries.NewGetActivityHandler(repo, loc),
		listActivitiesHandler: queries.NewListActivitiesHandler(repo, loc),
		weeklyHandler:         queries.NewGetWeeklySummaryHandler(repo, cache, loc, cfg.Logger, cfg.Metrics),
		monthlyHandler:        queries.NewGetMonthlySummaryHandler(repo, cache, loc, cfg.Logger, cfg.Metrics),
		trendsHandler:         queries.NewGetTrendsHandler(repo, loc),
		heatmapHandler:        queries.NewGetHeatmapHandler(repo, loc),
		contextHandler:        queries.NewGetProductivityContextHandler(repo, loc),
	}
}

// Now returns the service clock's current time in the service location.
func (s *Service) Now() time.Time {
	return s.clock().In(s.location)
}

// Location returns the location that defines calendar days.
func (s *Service) Location() *time.Location {
	return s.location
}

// RecomputeHandler exposes the recompute command for event subscribers.
func (s *Service) RecomputeHandler() *commands.RecomputeDailyActivityHandler {
	return s.recomputeHandler
}

// Recompute rebuilds the rollup of the calendar day containing date.
func (s *Service) Recompute(ctx context.Context, userID uuid.UUID, date time.Time) (*RecomputeResult, error) {
	res, err := s.recomputeHandler.Handle(ctx, commands.RecomputeDailyActivityCommand{UserID: userID, Date: date})
	if err != nil {
		return nil, err
	}
	return &RecomputeResult{
		Date:       domain.DateKey(domain.StartOfDay(date, s.location)),
		Recomputed: res.Recomputed,
		Cleared:    res.Cleared,
		Activity:   ToActivityDTO(res.Activity),
	}, nil
}

// GetActivity returns the rollup of a day or domain.ErrActivityNotFound.
func (s *Service) GetActivity(ctx context.Context, userID uuid.UUID, date time.Time) (*ActivityDTO, error) {
	a, err := s.getActivityHandler.Handle(ctx, queries.GetActivityQuery{UserID: userID, Date: date})
	if err != nil {
		return nil, err
	}
	return ToActivityDTO(a), nil
}

// ListActivities returns the rollups in [start, end], oldest first.
func (s *Service) ListActivities(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]ActivityDTO, error) {
	activities, err := s.listActivitiesHandler.Handle(ctx, queries.ListActivitiesQuery{UserID: userID, Start: start, End: end})
	if err != nil {
		return nil, err
	}
	return toActivityDTOs(activities), nil
}

// RecentActivities returns the rollups of the last days days, newest first.
func (s *Service) RecentActivities(ctx context.Context, userID uuid.UUID, days int) ([]ActivityDTO, error) {
	if days <= 0 {
		days = domain.WeekDays
	}
	now := s.Now()
	activities, err := s.listActivitiesHandler.Handle(ctx, queries.ListActivitiesQuery{
		UserID:      userID,
		Start:       now.AddDate(0, 0, -(days - 1)),
		End:         now,
		NewestFirst: true,
	})
	if err != nil {
		return nil, err
	}
	return toActivityDTOs(activities), nil
}

// GetWeeklySummary aggregates the seven days ending on now.
func (s *Service) GetWeeklySummary(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.WeeklySummary, error) {
	return s.weeklyHandler.Handle(ctx, queries.GetWeeklySummaryQuery{UserID: userID, Now: now})
}

// GetMonthlySummary aggregates a calendar month.
func (s *Service) GetMonthlySummary(ctx context.Context, userID uuid.UUID, year, month int) (*domain.MonthlySummary, error) {
	return s.monthlyHandler.Handle(ctx, queries.GetMonthlySummaryQuery{UserID: userID, Year: year, Month: month})
}

// GetTrends returns the recorded days of the last periodDays days.
func (s *Service) GetTrends(ctx context.Context, userID uuid.UUID, periodDays int, now time.Time) (*domain.Trends, error) {
	return s.trendsHandler.Handle(ctx, queries.GetTrendsQuery{UserID: userID, PeriodDays: periodDays, Now: now})
}

// GetHeatmap returns one cell per day of a month.
func (s *Service) GetHeatmap(ctx context.Context, userID uuid.UUID, year, month int) ([]domain.HeatmapCell, error) {
	return s.heatmapHandler.Handle(ctx, queries.GetHeatmapQuery{UserID: userID, Year: year, Month: month})
}

// SetNotes sets the notes of a day, creating an empty rollup if needed.
func (s *Service) SetNotes(ctx context.Context, userID uuid.UUID, date time.Time, text string) (*ActivityDTO, error) {
	a, err := s.setNotesHandler.Handle(ctx, commands.SetActivityNotesCommand{UserID: userID, Date: date, Notes: text})
	if err != nil {
		return nil, err
	}
	return ToActivityDTO(a), nil
}

// GetProductivityContext returns the assistant digest of the last week.
func (s *Service) GetProductivityContext(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.ProductivityContext, error) {
	return s.contextHandler.Handle(ctx, queries.GetProductivityContextQuery{UserID: userID, Now: now})
}
