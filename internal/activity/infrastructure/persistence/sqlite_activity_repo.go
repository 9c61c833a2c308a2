package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database/sqlite"
)

// SQLiteActivityRepository implements domain.ActivityRepository for local mode.
type SQLiteActivityRepository struct {
	conn database.Connection
	loc  *time.Location
	now  func() time.Time
}

// NewSQLiteActivityRepository creates a SQLite activity repository.
func NewSQLiteActivityRepository(conn database.Connection, loc *time.Location) *SQLiteActivityRepository {
	if loc == nil {
		loc = time.Local
	}
	return &SQLiteActivityRepository{conn: conn, loc: loc, now: time.Now}
}

func (r *SQLiteActivityRepository) Upsert(ctx context.Context, a *domain.Activity) error {
	b, err := encodeBreakdowns(a)
	if err != nil {
		return err
	}
	now := formatTime(r.now())

	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, activity_date) DO UPDATE SET
			total_tasks = excluded.total_tasks,
			completed_tasks = excluded.completed_tasks,
			total_hours = excluded.total_hours,
			productivity_score = excluded.productivity_score,
			intensity = excluded.intensity,
			tasks_by_category = excluded.tasks_by_category,
			tasks_by_priority = excluded.tasks_by_priority,
			average_focus_level = excluded.average_focus_level,
			average_difficulty = excluded.average_difficulty,
			updated_at = excluded.updated_at
		RETURNING id, notes, created_at`,
		a.ID.String(), a.UserID.String(), domain.DateKey(a.Date),
		a.TotalTasks, a.CompletedTasks, a.TotalHours, a.ProductivityScore, a.Intensity,
		string(b.category), string(b.priority), a.AverageFocusLevel, a.AverageDifficulty,
		a.Notes, formatTime(a.CreatedAt), now,
	)
	if err := r.scanStored(row, a); err != nil {
		return fmt.Errorf("upsert activity %s: %w", a.DateKey(), err)
	}
	return nil
}

func (r *SQLiteActivityRepository) SaveNotes(ctx context.Context, a *domain.Activity) error {
	b, err := encodeBreakdowns(a)
	if err != nil {
		return err
	}
	now := formatTime(r.now())

	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, activity_date) DO UPDATE SET
			notes = excluded.notes,
			updated_at = excluded.updated_at
		RETURNING id, notes, created_at`,
		a.ID.String(), a.UserID.String(), domain.DateKey(a.Date),
		a.TotalTasks, a.CompletedTasks, a.TotalHours, a.ProductivityScore, a.Intensity,
		string(b.category), string(b.priority), a.AverageFocusLevel, a.AverageDifficulty,
		a.Notes, formatTime(a.CreatedAt), now,
	)
	if err := r.scanStored(row, a); err != nil {
		return fmt.Errorf("save notes %s: %w", a.DateKey(), err)
	}
	return nil
}

func (r *SQLiteActivityRepository) scanStored(row database.Row, a *domain.Activity) error {
	var id, createdAt string
	if err := row.Scan(&id, &a.Notes, &createdAt); err != nil {
		return err
	}
	var err error
	if a.ID, err = uuid.Parse(id); err != nil {
		return err
	}
	if a.CreatedAt, err = time.Parse(sqlite.TimeLayout, createdAt); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteActivityRepository) FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Activity, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT `+activityColumns+` FROM activities
		WHERE user_id = ? AND activity_date = ?`, userID.String(), domain.DateKey(date))
	a, err := r.scan(row)
	if database.IsNoRows(err) {
		return nil, domain.ErrActivityNotFound
	}
	return a, err
}

func (r *SQLiteActivityRepository) FindRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Activity, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+activityColumns+` FROM activities
		WHERE user_id = ? AND activity_date >= ? AND activity_date <= ?
		ORDER BY activity_date`,
		userID.String(), domain.DateKey(start), domain.DateKey(end))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return collectActivities(rows, r.scan)
}

func (r *SQLiteActivityRepository) Delete(ctx context.Context, userID uuid.UUID, date time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		DELETE FROM activities WHERE user_id = ? AND activity_date = ?`,
		userID.String(), domain.DateKey(date))
	if err != nil {
		return fmt.Errorf("delete activity %s: %w", domain.DateKey(date), err)
	}
	return nil
}

func (r *SQLiteActivityRepository) scan(row database.Row) (*domain.Activity, error) {
	var (
		a                    domain.Activity
		id, userID, day      string
		category, priority   string
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &userID, &day, &a.TotalTasks, &a.CompletedTasks, &a.TotalHours,
		&a.ProductivityScore, &a.Intensity, &category, &priority,
		&a.AverageFocusLevel, &a.AverageDifficulty, &a.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid activity id: %w", err)
	}
	if a.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	if a.Date, err = time.ParseInLocation(sqlite.DateLayout, day, r.loc); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = time.Parse(sqlite.TimeLayout, createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = time.Parse(sqlite.TimeLayout, updatedAt); err != nil {
		return nil, err
	}
	if err := (breakdowns{category: []byte(category), priority: []byte(priority)}).decodeInto(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlite.TimeLayout)
}
