package task

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	activityDomain "github.com/felixgeelhaar/pulse/internal/activity/domain"
	internalApp "github.com/felixgeelhaar/pulse/internal/app"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/felixgeelhaar/pulse/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testUserID is a fixed user ID for tests
var testUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// setupLocalModeTestApp creates a test application with SQLite for integration tests.
func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel:       "error",
		UserID:         testUserID.String(),
		Timezone:       "UTC",
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	container, err := internalApp.NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(
		container.CreateTaskHandler,
		container.UpdateTaskHandler,
		container.StartTaskHandler,
		container.CompleteTaskHandler,
		container.CancelTaskHandler,
		container.DeleteTaskHandler,
		container.ListTasksHandler,
		container.GetTaskHandler,
		container.ActivityService,
	)
	app.SetCurrentUserID(testUserID)
	app.SetEventDrainer(container.DrainOutbox)

	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })

	resetFlags()
	return app
}

func resetFlags() {
	category, priority, description, tags, notes = "", "", "", "", ""
	difficulty, focusLevel = 0, 0
	startAt, endAt = "", ""
	duration = 60
	completed = false

	listDay, listToday, status, filterCategory, filterPriority, limit = "", false, "", "", "", 0

	for _, c := range []*cobra.Command{createCmd, updateCmd, listCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func listAll(t *testing.T, app *cli.App) []queries.TaskDTO {
	t.Helper()
	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	return tasks
}

func TestCreateCmd_CreatesTaskAndActivity(t *testing.T) {
	app := setupLocalModeTestApp(t)

	priority = "high"
	category = "work"
	focusLevel = 5
	startAt = "2026-03-10 09:00"
	endAt = "2026-03-10 11:00"
	tags = "deep, report"
	completed = true

	out := run(t, createCmd, "Write report")
	assert.Contains(t, out, "Task created:")

	tasks := listAll(t, app)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)
	assert.Equal(t, "high", tasks[0].Priority)
	assert.Equal(t, "work", tasks[0].Category)
	assert.Equal(t, 5, tasks[0].FocusLevel)
	assert.Equal(t, 120, tasks[0].DurationMinutes)
	assert.Equal(t, []string{"deep", "report"}, tasks[0].Tags)
	assert.Equal(t, "completed", tasks[0].Status)

	activity, err := app.ActivityService.GetActivity(context.Background(), testUserID, testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, activity.TotalTasks)
	assert.Equal(t, 1, activity.CompletedTasks)
	assert.InDelta(t, 2.0, activity.TotalHours, 0.001)
}

func TestCreateCmd_DurationWithoutEnd(t *testing.T) {
	app := setupLocalModeTestApp(t)

	startAt = "2026-03-10 14:00"
	duration = 45

	run(t, createCmd, "Standup")

	tasks := listAll(t, app)
	require.Len(t, tasks, 1)
	assert.Equal(t, 45, tasks[0].DurationMinutes)
	assert.Equal(t, "medium", tasks[0].Priority)
	assert.Equal(t, "other", tasks[0].Category)
}

func TestCreateCmd_RejectsInvalidStart(t *testing.T) {
	setupLocalModeTestApp(t)

	startAt = "next thursday"
	createCmd.SetContext(context.Background())
	err := createCmd.RunE(createCmd, []string{"Bad"})
	assert.ErrorContains(t, err, "invalid --start")
}

func TestTaskLifecycleCommands(t *testing.T) {
	app := setupLocalModeTestApp(t)

	startAt = "2026-03-10 09:00"
	run(t, createCmd, "Lifecycle")
	id := listAll(t, app)[0].ID
	prefix := id.String()[:8]

	assert.Contains(t, run(t, startCmd, prefix), "Task started")
	assert.Equal(t, "in-progress", listAll(t, app)[0].Status)

	assert.Contains(t, run(t, completeCmd, id.String()), "Task completed")
	assert.Equal(t, "completed", listAll(t, app)[0].Status)

	out := run(t, showCmd, prefix)
	assert.Contains(t, out, "Lifecycle")
	assert.Contains(t, out, "Completed")

	activity, err := app.ActivityService.GetActivity(context.Background(), testUserID, testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, activity.CompletedTasks)
}

func TestCancelCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)

	startAt = "2026-03-10 09:00"
	run(t, createCmd, "Maybe later")
	id := listAll(t, app)[0].ID

	run(t, cancelCmd, id.String())
	assert.Equal(t, "cancelled", listAll(t, app)[0].Status)
}

func TestUpdateCmd_MovesTaskBetweenDays(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	startAt = "2026-03-10 09:00"
	completed = true
	run(t, createCmd, "Movable")
	id := listAll(t, app)[0].ID

	_, err := app.ActivityService.GetActivity(ctx, testUserID, testDay)
	require.NoError(t, err)

	require.NoError(t, updateCmd.Flags().Set("start", "2026-03-11 09:00"))
	require.NoError(t, updateCmd.Flags().Set("end", "2026-03-11 10:30"))
	require.NoError(t, updateCmd.Flags().Set("focus", "4"))
	run(t, updateCmd, id.String())

	got := listAll(t, app)[0]
	assert.Equal(t, 90, got.DurationMinutes)
	assert.Equal(t, 4, got.FocusLevel)

	_, err = app.ActivityService.GetActivity(ctx, testUserID, testDay)
	assert.ErrorIs(t, err, activityDomain.ErrActivityNotFound)

	moved, err := app.ActivityService.GetActivity(ctx, testUserID, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, moved.TotalTasks)
	assert.InDelta(t, 1.5, moved.TotalHours, 0.001)
}

func TestUpdateCmd_RequiresFlags(t *testing.T) {
	app := setupLocalModeTestApp(t)

	startAt = "2026-03-10 09:00"
	run(t, createCmd, "Untouched")
	id := listAll(t, app)[0].ID

	updateCmd.SetContext(context.Background())
	err := updateCmd.RunE(updateCmd, []string{id.String()})
	assert.ErrorContains(t, err, "no updates provided")
}

func TestDeleteCmd_ClearsActivity(t *testing.T) {
	app := setupLocalModeTestApp(t)

	startAt = "2026-03-10 09:00"
	run(t, createCmd, "Temporary")
	id := listAll(t, app)[0].ID

	run(t, deleteCmd, id.String())
	assert.Empty(t, listAll(t, app))

	_, err := app.ActivityService.GetActivity(context.Background(), testUserID, testDay)
	assert.ErrorIs(t, err, activityDomain.ErrActivityNotFound)
}

func TestListCmd_FiltersByDay(t *testing.T) {
	setupLocalModeTestApp(t)

	startAt = "2026-03-10 09:00"
	run(t, createCmd, "Tuesday task")
	startAt = "2026-03-11 09:00"
	run(t, createCmd, "Wednesday task")

	listDay = "2026-03-11"
	out := run(t, listCmd)
	assert.Contains(t, out, "Tasks (1)")
	assert.Contains(t, out, "Wednesday task")
	assert.NotContains(t, out, "Tuesday task")
}

func TestListCmd_Empty(t *testing.T) {
	setupLocalModeTestApp(t)

	out := run(t, listCmd)
	assert.Contains(t, out, "No tasks found.")
}

func TestResolveTaskID(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	startAt = "2026-03-10 09:00"
	run(t, createCmd, "Prefixed")
	id := listAll(t, app)[0].ID

	got, err := resolveTaskID(ctx, app, id.String()[:6])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = resolveTaskID(ctx, app, "abc")
	assert.ErrorContains(t, err, "invalid task ID")

	_, err = resolveTaskID(ctx, app, "ffffffff-nope")
	assert.Error(t, err)
}

func TestCommandsRequireApp(t *testing.T) {
	cli.SetApp(nil)

	for _, cmd := range []*cobra.Command{createCmd, listCmd, showCmd, startCmd, completeCmd, cancelCmd, updateCmd, deleteCmd} {
		t.Run(cmd.Name(), func(t *testing.T) {
			cmd.SetContext(context.Background())
			err := cmd.RunE(cmd, []string{"x"})
			assert.ErrorContains(t, err, "application not initialized")
		})
	}
}

func TestParseWhen(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)

	got, err := parseWhen("2026-03-09 08:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC), got)

	got, err = parseWhen("07:15", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 7, 15, 0, 0, time.UTC), got)

	_, err = parseWhen("soon", now)
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45m", formatDuration(45))
	assert.Equal(t, "2h", formatDuration(120))
	assert.Equal(t, "1h30m", formatDuration(90))
}
