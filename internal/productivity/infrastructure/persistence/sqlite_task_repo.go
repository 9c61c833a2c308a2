package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database/sqlite"
)

// SQLiteTaskRepository implements task.Repository for local mode.
type SQLiteTaskRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLiteTaskRepository creates a SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn, now: time.Now}
}

func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	tags, err := encodeTags(t)
	if err != nil {
		return err
	}
	var completedAt sql.NullString
	if t.CompletedAt() != nil {
		completedAt = sql.NullString{String: formatTime(*t.CompletedAt()), Valid: true}
	}
	now := formatTime(r.now())

	if t.Version() == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO tasks (`+taskColumns+`, duration_min)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
			t.ID().String(), t.UserID().String(), t.Title(), t.Description(),
			t.Category().String(), t.Priority().String(), t.Difficulty().Value(), t.FocusLevel().Value(),
			t.Status().String(), formatTime(t.StartTime()), formatTime(t.EndTime()), completedAt,
			string(tags), t.Notes(), formatTime(t.CreatedAt()), now, t.DurationMinutes(),
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID(), err)
		}
		t.SetVersion(1)
		return nil
	}

	res, err := exec.Exec(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, category = ?, priority = ?, difficulty = ?, focus_level = ?,
			status = ?, start_time = ?, end_time = ?, duration_min = ?, completed_at = ?,
			tags = ?, notes = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		t.Title(), t.Description(), t.Category().String(), t.Priority().String(),
		t.Difficulty().Value(), t.FocusLevel().Value(), t.Status().String(),
		formatTime(t.StartTime()), formatTime(t.EndTime()), t.DurationMinutes(), completedAt,
		string(tags), t.Notes(), now, t.ID().String(), t.Version(),
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrOptimisticLocking
	}
	t.SetVersion(t.Version() + 1)
	return nil
}

func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())
	t, err := scanSQLiteTask(row)
	if database.IsNoRows(err) {
		return nil, task.ErrTaskNotFound
	}
	return t, err
}

func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter task.ListFilter) ([]*task.Task, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID.String()}
	)
	if !filter.From.IsZero() {
		where = append(where, "start_time >= ?")
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "start_time < ?")
		args = append(args, formatTime(filter.To))
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, filter.Status.String())
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY start_time DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows, scanSQLiteTask)
}

func (r *SQLiteTaskRepository) FindStartingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*task.Task, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time, id`,
		userID.String(), formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("tasks starting between: %w", err)
	}
	return collectTasks(rows, scanSQLiteTask)
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func scanSQLiteTask(row database.Row) (*task.Task, error) {
	var (
		r                                   taskRow
		id, userID, tags                    string
		startTime, endTime, created, update string
		completedAt                         sql.NullString
	)
	err := row.Scan(&id, &userID, &r.Title, &r.Description, &r.Category, &r.Priority,
		&r.Difficulty, &r.FocusLevel, &r.Status, &startTime, &endTime, &completedAt,
		&tags, &r.Notes, &r.Version, &created, &update)
	if err != nil {
		return nil, err
	}

	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	if r.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	for _, f := range []struct {
		src string
		dst *time.Time
	}{
		{startTime, &r.StartTime},
		{endTime, &r.EndTime},
		{created, &r.CreatedAt},
		{update, &r.UpdatedAt},
	} {
		if *f.dst, err = time.Parse(sqlite.TimeLayout, f.src); err != nil {
			return nil, err
		}
	}
	if completedAt.Valid {
		at, err := time.Parse(sqlite.TimeLayout, completedAt.String)
		if err != nil {
			return nil, err
		}
		r.CompletedAt = &at
	}
	r.Tags = []byte(tags)
	return r.toDomain()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlite.TimeLayout)
}
