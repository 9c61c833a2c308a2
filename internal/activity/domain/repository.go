package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityRepository persists daily rollups. Dates are calendar days; the
// time of day is ignored.
type ActivityRepository interface {
	// Upsert inserts the rollup or replaces the derived fields of the
	// existing one for the same user and day. Stored notes are kept.
	Upsert(ctx context.Context, activity *Activity) error

	// SaveNotes sets notes, inserting a zero-valued rollup when none exists.
	SaveNotes(ctx context.Context, activity *Activity) error

	// FindByDate returns ErrActivityNotFound when the day has no rollup.
	FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*Activity, error)

	// FindRange returns the rollups in [start, end], oldest first.
	FindRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*Activity, error)

	// Delete removes the rollup for a day. Missing rows are not an error.
	Delete(ctx context.Context, userID uuid.UUID, date time.Time) error
}

// TaskSource reads the tasks the rollup builder aggregates.
type TaskSource interface {
	// TasksStartingBetween returns the user's tasks whose start time lies
	// in [from, to).
	TasksStartingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]TaskRecord, error)
}

// SummaryCache stores computed summaries between rollup changes. A miss is
// reported as (nil, false, nil).
//
// Writes are fenced by a per-user generation: callers read Generation before
// loading records and pass it to Set, which drops the summary when an
// InvalidateUser happened in between.
type SummaryCache interface {
	Generation(ctx context.Context, userID uuid.UUID) (int64, error)
	GetWeekly(ctx context.Context, userID uuid.UUID, day time.Time) (*WeeklySummary, bool, error)
	SetWeekly(ctx context.Context, userID uuid.UUID, gen int64, day time.Time, summary *WeeklySummary) error
	GetMonthly(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*MonthlySummary, bool, error)
	SetMonthly(ctx context.Context, userID uuid.UUID, gen int64, year int, month time.Month, summary *MonthlySummary) error

	// InvalidateUser drops every cached summary of the user and advances
	// the generation.
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}
