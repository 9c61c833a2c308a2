package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/google/uuid"
)

// SetActivityNotesCommand sets the notes of a calendar day.
type SetActivityNotesCommand struct {
	UserID uuid.UUID
	Date   time.Time
	Notes  string
}

// SetActivityNotesHandler handles set notes commands.
type SetActivityNotesHandler struct {
	repo     domain.ActivityRepository
	cache    domain.SummaryCache
	locks    *sharedApplication.KeyedMutex
	location *time.Location
	logger   *slog.Logger
}

// NewSetActivityNotesHandler creates a new set notes handler. Pass the same
// KeyedMutex as the recompute handler so both serialize on a day.
func NewSetActivityNotesHandler(
	repo domain.ActivityRepository,
	cache domain.SummaryCache,
	locks *sharedApplication.KeyedMutex,
	location *time.Location,
	logger *slog.Logger,
) *SetActivityNotesHandler {
	if locks == nil {
		locks = sharedApplication.NewKeyedMutex()
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SetActivityNotesHandler{
		repo:     repo,
		cache:    cache,
		locks:    locks,
		location: location,
		logger:   logger,
	}
}

// Handle executes the set notes command. A day without a rollup gets a
// zero-valued one carrying the notes.
func (h *SetActivityNotesHandler) Handle(ctx context.Context, cmd SetActivityNotesCommand) (*domain.Activity, error) {
	if err := domain.ValidateNotes(cmd.Notes); err != nil {
		return nil, err
	}

	date := domain.StartOfDay(cmd.Date, h.location)
	unlock := h.locks.Lock(LockKey(cmd.UserID, date))
	defer unlock()

	activity, err := h.repo.FindByDate(ctx, cmd.UserID, date)
	if errors.Is(err, domain.ErrActivityNotFound) {
		activity = domain.NewEmptyActivity(cmd.UserID, date)
	} else if err != nil {
		return nil, fmt.Errorf("load activity for %s: %w", domain.DateKey(date), err)
	}

	if err := activity.SetNotes(cmd.Notes); err != nil {
		return nil, err
	}
	if err := h.repo.SaveNotes(ctx, activity); err != nil {
		return nil, fmt.Errorf("save notes for %s: %w", domain.DateKey(date), err)
	}

	invalidate(ctx, h.cache, h.logger, cmd.UserID)
	return activity, nil
}
