package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
)

// PostgresActivityRepository implements domain.ActivityRepository for server mode.
type PostgresActivityRepository struct {
	conn database.Connection
	loc  *time.Location
}

// NewPostgresActivityRepository creates a PostgreSQL activity repository.
func NewPostgresActivityRepository(conn database.Connection, loc *time.Location) *PostgresActivityRepository {
	if loc == nil {
		loc = time.Local
	}
	return &PostgresActivityRepository{conn: conn, loc: loc}
}

const postgresInsertActivity = `
	INSERT INTO activities (` + activityColumns + `)
	VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
	ON CONFLICT (user_id, activity_date) DO UPDATE SET `

func (r *PostgresActivityRepository) Upsert(ctx context.Context, a *domain.Activity) error {
	return r.write(ctx, a, `
		total_tasks = EXCLUDED.total_tasks,
		completed_tasks = EXCLUDED.completed_tasks,
		total_hours = EXCLUDED.total_hours,
		productivity_score = EXCLUDED.productivity_score,
		intensity = EXCLUDED.intensity,
		tasks_by_category = EXCLUDED.tasks_by_category,
		tasks_by_priority = EXCLUDED.tasks_by_priority,
		average_focus_level = EXCLUDED.average_focus_level,
		average_difficulty = EXCLUDED.average_difficulty,
		updated_at = NOW()`)
}

func (r *PostgresActivityRepository) SaveNotes(ctx context.Context, a *domain.Activity) error {
	return r.write(ctx, a, `notes = EXCLUDED.notes, updated_at = NOW()`)
}

func (r *PostgresActivityRepository) write(ctx context.Context, a *domain.Activity, onConflict string) error {
	b, err := encodeBreakdowns(a)
	if err != nil {
		return err
	}
	err = database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		postgresInsertActivity+onConflict+` RETURNING id, notes, created_at`,
		a.ID, a.UserID, domain.DateKey(a.Date),
		a.TotalTasks, a.CompletedTasks, a.TotalHours, a.ProductivityScore, a.Intensity,
		b.category, b.priority, a.AverageFocusLevel, a.AverageDifficulty,
		a.Notes, a.CreatedAt,
	).Scan(&a.ID, &a.Notes, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("write activity %s: %w", a.DateKey(), err)
	}
	return nil
}

func (r *PostgresActivityRepository) FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Activity, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT `+activityColumns+` FROM activities
		WHERE user_id = $1 AND activity_date = $2::date`, userID, domain.DateKey(date))
	a, err := r.scan(row)
	if database.IsNoRows(err) {
		return nil, domain.ErrActivityNotFound
	}
	return a, err
}

func (r *PostgresActivityRepository) FindRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Activity, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+activityColumns+` FROM activities
		WHERE user_id = $1 AND activity_date BETWEEN $2::date AND $3::date
		ORDER BY activity_date`,
		userID, domain.DateKey(start), domain.DateKey(end))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return collectActivities(rows, r.scan)
}

func (r *PostgresActivityRepository) Delete(ctx context.Context, userID uuid.UUID, date time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		DELETE FROM activities WHERE user_id = $1 AND activity_date = $2::date`,
		userID, domain.DateKey(date))
	if err != nil {
		return fmt.Errorf("delete activity %s: %w", domain.DateKey(date), err)
	}
	return nil
}

func (r *PostgresActivityRepository) scan(row database.Row) (*domain.Activity, error) {
	var (
		a   domain.Activity
		day time.Time
		b   breakdowns
	)
	err := row.Scan(&a.ID, &a.UserID, &day, &a.TotalTasks, &a.CompletedTasks, &a.TotalHours,
		&a.ProductivityScore, &a.Intensity, &b.category, &b.priority,
		&a.AverageFocusLevel, &a.AverageDifficulty, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Date = calendarDay(day, r.loc)
	if err := b.decodeInto(&a); err != nil {
		return nil, err
	}
	return &a, nil
}
