package persistence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
)

// PostgresTaskRepository implements task.Repository for server mode.
type PostgresTaskRepository struct {
	conn database.Connection
}

// NewPostgresTaskRepository creates a PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	tags, err := encodeTags(t)
	if err != nil {
		return err
	}

	if t.Version() == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO tasks (`+taskColumns+`, duration_min)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1, $15, NOW(), $16)`,
			t.ID(), t.UserID(), t.Title(), t.Description(),
			t.Category().String(), t.Priority().String(), t.Difficulty().Value(), t.FocusLevel().Value(),
			t.Status().String(), t.StartTime(), t.EndTime(), t.CompletedAt(),
			tags, t.Notes(), t.CreatedAt(), t.DurationMinutes(),
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID(), err)
		}
		t.SetVersion(1)
		return nil
	}

	res, err := exec.Exec(ctx, `
		UPDATE tasks SET
			title = $1, description = $2, category = $3, priority = $4, difficulty = $5, focus_level = $6,
			status = $7, start_time = $8, end_time = $9, duration_min = $10, completed_at = $11,
			tags = $12, notes = $13, version = version + 1, updated_at = NOW()
		WHERE id = $14 AND version = $15`,
		t.Title(), t.Description(), t.Category().String(), t.Priority().String(),
		t.Difficulty().Value(), t.FocusLevel().Value(), t.Status().String(),
		t.StartTime(), t.EndTime(), t.DurationMinutes(), t.CompletedAt(),
		tags, t.Notes(), t.ID(), t.Version(),
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

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	t, err := scanPostgresTask(exec.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if database.IsNoRows(err) {
		return nil, task.ErrTaskNotFound
	}
	return t, err
}

func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter task.ListFilter) ([]*task.Task, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		where = append(where, "start_time >= "+next(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "start_time < "+next(filter.To))
	}
	if filter.Status != nil {
		where = append(where, "status = "+next(filter.Status.String()))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY start_time DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ` + next(filter.Limit)
	}

	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows, scanPostgresTask)
}

func (r *PostgresTaskRepository) FindStartingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*task.Task, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time, id`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("tasks starting between: %w", err)
	}
	return collectTasks(rows, scanPostgresTask)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
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

func scanPostgresTask(row database.Row) (*task.Task, error) {
	var r taskRow
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.Category, &r.Priority,
		&r.Difficulty, &r.FocusLevel, &r.Status, &r.StartTime, &r.EndTime, &r.CompletedAt,
		&r.Tags, &r.Notes, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r.toDomain()
}
