package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	activityDomain "github.com/felixgeelhaar/pulse/internal/activity/domain"
	internalApp "github.com/felixgeelhaar/pulse/internal/app"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/felixgeelhaar/pulse/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func setupActivityTestApp(t *testing.T) (*cli.App, *internalApp.Container) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		UserID:         testUserID.String(),
		Timezone:       "UTC",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

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

	jsonOutput = false
	listFrom, listTo, listDays = "", "", activityDomain.WeekDays
	trendDays = activityDomain.DefaultTrendPeriod
	clearNotes = false

	return app, container
}

func addTask(t *testing.T, c *internalApp.Container, start time.Time, hours int, completed bool) {
	t.Helper()
	ctx := context.Background()
	_, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:    testUserID,
		Title:     "Task",
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours) * time.Hour),
		Completed: completed,
	})
	require.NoError(t, err)
	require.NoError(t, c.DrainOutbox(ctx))
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestShowCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	addTask(t, c, testDay.Add(9*time.Hour), 2, true)
	addTask(t, c, testDay.Add(13*time.Hour), 2, false)

	out := run(t, showCmd, "2026-03-10")
	assert.Contains(t, out, "Activity: 2026-03-10")
	assert.Contains(t, out, "2 (1 completed)")
	assert.Contains(t, out, "4.0h")
	assert.Contains(t, out, "36/100")
	assert.Contains(t, out, "###.. 3")
}

func TestShowCmd_JSON(t *testing.T) {
	_, c := setupActivityTestApp(t)
	addTask(t, c, testDay.Add(9*time.Hour), 2, true)

	jsonOutput = true
	out := run(t, showCmd, "2026-03-10")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2026-03-10", got["date"])
	assert.EqualValues(t, 1, got["completed_tasks"])
}

func TestShowCmd_NoRecord(t *testing.T) {
	setupActivityTestApp(t)

	out := run(t, showCmd, "2026-03-10")
	assert.Contains(t, out, "No activity recorded on 2026-03-10")
}

func TestShowCmd_InvalidDate(t *testing.T) {
	setupActivityTestApp(t)

	showCmd.SetContext(context.Background())
	err := showCmd.RunE(showCmd, []string{"10/03/2026"})
	assert.ErrorIs(t, err, activityDomain.ErrInvalidRange)
}

func TestRecomputeCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	addTask(t, c, testDay.Add(9*time.Hour), 1, true)

	out := run(t, recomputeCmd, "2026-03-10")
	assert.Contains(t, out, "Recomputed 2026-03-10")

	out = run(t, recomputeCmd, "2026-03-11")
	assert.Contains(t, out, "No tasks on 2026-03-11")
}

func TestNotesCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	addTask(t, c, testDay.Add(9*time.Hour), 1, true)

	out := run(t, notesCmd, "2026-03-10", "Strong afternoon")
	assert.Contains(t, out, "Notes saved for 2026-03-10")

	out = run(t, showCmd, "2026-03-10")
	assert.Contains(t, out, "Strong afternoon")

	clearNotes = true
	out = run(t, notesCmd, "2026-03-10")
	assert.Contains(t, out, "Notes cleared")
}

func TestNotesCmd_KeepsDayWithoutTasks(t *testing.T) {
	setupActivityTestApp(t)

	run(t, notesCmd, "2026-03-12", "Day off")

	out := run(t, recomputeCmd, "2026-03-12")
	assert.Contains(t, out, "notes kept")

	out = run(t, showCmd, "2026-03-12")
	assert.Contains(t, out, "Day off")
	assert.Contains(t, out, "0 (0 completed)")
}

func TestNotesCmd_RequiresText(t *testing.T) {
	setupActivityTestApp(t)

	notesCmd.SetContext(context.Background())
	err := notesCmd.RunE(notesCmd, []string{"2026-03-10"})
	assert.ErrorContains(t, err, "notes text is required")
}

func TestListCmd_Range(t *testing.T) {
	_, c := setupActivityTestApp(t)
	addTask(t, c, testDay.Add(9*time.Hour), 1, true)
	addTask(t, c, testDay.AddDate(0, 0, 2).Add(9*time.Hour), 3, true)

	listFrom, listTo = "2026-03-01", "2026-03-31"
	out := run(t, listCmd)
	assert.Contains(t, out, "2026-03-10")
	assert.Contains(t, out, "2026-03-12")

	listFrom, listTo = "2026-03-11", "2026-03-31"
	out = run(t, listCmd)
	assert.NotContains(t, out, "2026-03-10")
	assert.Contains(t, out, "2026-03-12")
}

func TestListCmd_Recent(t *testing.T) {
	_, c := setupActivityTestApp(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	addTask(t, c, today, 1, true)

	out := run(t, listCmd)
	assert.Contains(t, out, today.Format("2006-01-02"))
}

func TestWeekCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	addTask(t, c, today, 2, true)
	addTask(t, c, today.AddDate(0, 0, -1), 1, true)

	out := run(t, weekCmd)
	assert.Contains(t, out, "Completed tasks: 2")
	assert.Contains(t, out, "3.0h")
	assert.Contains(t, out, "Streak:          2 days")

	jsonOutput = true
	out = run(t, weekCmd)
	var got activityDomain.WeeklySummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.DailyData, activityDomain.WeekDays)
}

func TestMonthCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	addTask(t, c, testDay.Add(9*time.Hour), 2, true)
	addTask(t, c, testDay.Add(13*time.Hour), 2, false)

	out := run(t, monthCmd, "2026-03")
	assert.Contains(t, out, "March 2026")
	assert.Contains(t, out, "2 (1 completed, 50%)")
	assert.Contains(t, out, "Active days:     1")
}

func TestMonthCmd_InvalidMonth(t *testing.T) {
	setupActivityTestApp(t)

	monthCmd.SetContext(context.Background())
	err := monthCmd.RunE(monthCmd, []string{"March"})
	assert.ErrorContains(t, err, "invalid month")
}

func TestHeatmapCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	addTask(t, c, testDay.Add(9*time.Hour), 5, true)

	out := run(t, heatmapCmd, "2026-03")
	assert.Contains(t, out, "March 2026")
	assert.Contains(t, out, "Mo Tu We Th Fr Sa Su")

	jsonOutput = true
	out = run(t, heatmapCmd, "2026-03")
	var cells []activityDomain.HeatmapCell
	require.NoError(t, json.Unmarshal([]byte(out), &cells))
	require.Len(t, cells, 31)
	assert.Equal(t, "2026-03-10", cells[9].Date)
	assert.Positive(t, cells[9].Intensity)
	assert.Zero(t, cells[10].Intensity)
}

func TestTrendsCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	addTask(t, c, today, 2, true)

	out := run(t, trendsCmd)
	assert.Contains(t, out, "(30 days)")
	assert.Contains(t, out, today.Format("2006-01-02"))
}

func TestContextCmd(t *testing.T) {
	_, c := setupActivityTestApp(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	addTask(t, c, today, 2, true)

	out := run(t, contextCmd)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "Suggested questions:")
}

func TestCommandsRequireApp(t *testing.T) {
	cli.SetApp(nil)

	for _, cmd := range []*cobra.Command{showCmd, listCmd, recomputeCmd, weekCmd, monthCmd, trendsCmd, heatmapCmd, notesCmd, contextCmd} {
		t.Run(cmd.Name(), func(t *testing.T) {
			cmd.SetContext(context.Background())
			err := cmd.RunE(cmd, nil)
			assert.ErrorIs(t, err, errNotInitialized)
		})
	}
}

func TestIntensityBar(t *testing.T) {
	assert.Equal(t, ".....", intensityBar(0))
	assert.Equal(t, "###..", intensityBar(3))
	assert.Equal(t, "#####", intensityBar(9))
	assert.Equal(t, ".....", intensityBar(-1))
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "", scoreBar(0))
	assert.Equal(t, "=======", scoreBar(36))
	assert.Len(t, scoreBar(150), 20)
}
