package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/pkg/observability"
	"github.com/google/uuid"
)

// RecomputeDailyActivityCommand rebuilds the rollup of one calendar day.
type RecomputeDailyActivityCommand struct {
	UserID uuid.UUID
	Date   time.Time
}

// RecomputeResult reports what a recompute did. Activity is nil when the
// day has no tasks and no notes.
type RecomputeResult struct {
	Activity   *domain.Activity
	Recomputed bool
	Cleared    bool
}

// RecomputeDailyActivityHandler aggregates a day's tasks into its rollup.
type RecomputeDailyActivityHandler struct {
	repo     domain.ActivityRepository
	tasks    domain.TaskSource
	cache    domain.SummaryCache
	locks    *sharedApplication.KeyedMutex
	location *time.Location
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewRecomputeDailyActivityHandler creates a new recompute handler.
func NewRecomputeDailyActivityHandler(
	repo domain.ActivityRepository,
	tasks domain.TaskSource,
	cache domain.SummaryCache,
	locks *sharedApplication.KeyedMutex,
	location *time.Location,
	logger *slog.Logger,
	metrics observability.Metrics,
) *RecomputeDailyActivityHandler {
	if locks == nil {
		locks = sharedApplication.NewKeyedMutex()
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &RecomputeDailyActivityHandler{
		repo:     repo,
		tasks:    tasks,
		cache:    cache,
		locks:    locks,
		location: location,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle executes the recompute command.
func (h *RecomputeDailyActivityHandler) Handle(ctx context.Context, cmd RecomputeDailyActivityCommand) (*RecomputeResult, error) {
	date := domain.StartOfDay(cmd.Date, h.location)
	unlock := h.locks.Lock(LockKey(cmd.UserID, date))
	defer unlock()

	start := time.Now()
	defer func() {
		h.metrics.Timing(observability.MetricActivityRecomputeTiming, time.Since(start))
	}()

	tasks, err := h.tasks.TasksStartingBetween(ctx, cmd.UserID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load tasks for %s: %w", domain.DateKey(date), err)
	}

	existing, err := h.repo.FindByDate(ctx, cmd.UserID, date)
	if err != nil && !errors.Is(err, domain.ErrActivityNotFound) {
		return nil, fmt.Errorf("load activity for %s: %w", domain.DateKey(date), err)
	}

	var result *RecomputeResult
	if len(tasks) == 0 {
		result, err = h.clear(ctx, cmd.UserID, date, existing)
	} else {
		result, err = h.rebuild(ctx, cmd.UserID, date, existing, tasks)
	}
	if err != nil {
		return nil, err
	}

	if result.Recomputed || result.Cleared {
		invalidate(ctx, h.cache, h.logger, cmd.UserID)
	}
	return result, nil
}

func (h *RecomputeDailyActivityHandler) rebuild(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	existing *domain.Activity,
	tasks []domain.TaskRecord,
) (*RecomputeResult, error) {
	stats := domain.BuildDailyStats(tasks)

	activity := existing
	if activity == nil {
		activity = domain.NewActivity(userID, date, stats)
	} else {
		activity.Replace(stats)
	}

	if err := h.repo.Upsert(ctx, activity); err != nil {
		return nil, fmt.Errorf("save activity for %s: %w", domain.DateKey(date), err)
	}

	h.metrics.Counter(observability.MetricActivityRecomputed, 1)
	h.logger.DebugContext(ctx, "activity recomputed",
		"user_id", userID,
		"date", domain.DateKey(date),
		"total_tasks", activity.TotalTasks,
		"score", activity.ProductivityScore,
		"intensity", activity.Intensity,
	)
	return &RecomputeResult{Activity: activity, Recomputed: true}, nil
}

// clear handles a day whose tasks are all gone. A rollup with notes is
// zeroed and kept; one without notes is removed.
func (h *RecomputeDailyActivityHandler) clear(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	existing *domain.Activity,
) (*RecomputeResult, error) {
	if existing == nil {
		return &RecomputeResult{}, nil
	}

	if existing.HasNotes() {
		existing.Replace(domain.DailyStats{})
		if err := h.repo.Upsert(ctx, existing); err != nil {
			return nil, fmt.Errorf("reset activity for %s: %w", domain.DateKey(date), err)
		}
		h.metrics.Counter(observability.MetricActivityCleared, 1, observability.T("mode", "reset"))
		return &RecomputeResult{Activity: existing, Cleared: true}, nil
	}

	if err := h.repo.Delete(ctx, userID, date); err != nil {
		return nil, fmt.Errorf("delete activity for %s: %w", domain.DateKey(date), err)
	}
	h.metrics.Counter(observability.MetricActivityCleared, 1, observability.T("mode", "delete"))
	h.logger.DebugContext(ctx, "activity cleared",
		"user_id", userID,
		"date", domain.DateKey(date),
	)
	return &RecomputeResult{Cleared: true}, nil
}

// LockKey identifies a (user, day) pair for the keyed mutex.
func LockKey(userID uuid.UUID, date time.Time) string {
	return userID.String() + ":" + domain.DateKey(date)
}

func invalidate(ctx context.Context, cache domain.SummaryCache, logger *slog.Logger, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateUser(ctx, userID); err != nil {
		logger.WarnContext(ctx, "failed to invalidate summary cache",
			"user_id", userID,
			"error", err,
		)
	}
}
