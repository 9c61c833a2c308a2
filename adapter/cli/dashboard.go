package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

const dashboardTaskLimit = 8

var dashboardCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's dashboard",
	Long: `Display a combined view of your day:
- Today's tasks and their status
- Today's activity record (score and intensity)
- The current streak for the week

Examples:
  pulse today`,
	Aliases: []string{"dashboard", "dash", "now"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListTasksHandler == nil || app.ActivityService == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		now := app.ActivityService.Now()

		fmt.Fprintf(out, "\n  %s\n", now.Format("Monday, January 2, 2006"))
		fmt.Fprintln(out, strings.Repeat("=", 60))

		if err := showTodayTasks(ctx, out, app, now); err != nil {
			return err
		}
		if err := showTodayActivity(ctx, out, app, now); err != nil {
			return err
		}

		fmt.Fprintln(out)
		return nil
	},
}

func showTodayTasks(ctx context.Context, out io.Writer, app *App, now time.Time) error {
	tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		UserID:   app.CurrentUserID,
		Day:      &now,
		Location: app.ActivityService.Location(),
	})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	fmt.Fprintln(out, "\n  TASKS")
	fmt.Fprintln(out, strings.Repeat("-", 60))

	if len(tasks) == 0 {
		fmt.Fprintln(out, "    Nothing planned yet.")
		fmt.Fprintln(out, "    Use 'pulse add' to log what you're working on")
		return nil
	}

	for i, t := range tasks {
		if i == dashboardTaskLimit {
			fmt.Fprintf(out, "\n    ... and %d more tasks\n", len(tasks)-dashboardTaskLimit)
			break
		}

		marker := "  "
		switch {
		case t.Status == "completed":
			marker = "x "
		case t.Status == "cancelled":
			marker = "- "
		case !t.StartTime.After(now) && t.EndTime.After(now):
			marker = "> "
		}

		fmt.Fprintf(out, "    %s%s - %s  %s %s\n",
			marker,
			t.StartTime.In(now.Location()).Format("15:04"),
			t.EndTime.In(now.Location()).Format("15:04"),
			getPriorityIcon(t.Priority),
			t.Title,
		)
	}
	return nil
}

func showTodayActivity(ctx context.Context, out io.Writer, app *App, now time.Time) error {
	fmt.Fprintln(out, "\n  ACTIVITY")
	fmt.Fprintln(out, strings.Repeat("-", 60))

	activity, err := app.ActivityService.GetActivity(ctx, app.CurrentUserID, now)
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		fmt.Fprintln(out, "    No activity recorded yet today.")
	case err != nil:
		return fmt.Errorf("failed to load activity: %w", err)
	default:
		fmt.Fprintf(out, "    %d/%d tasks completed | %.1fh | score %d/100 | intensity %d/%d\n",
			activity.CompletedTasks, activity.TotalTasks, activity.TotalHours,
			activity.ProductivityScore, activity.Intensity, domain.MaxIntensity)
	}

	week, err := app.ActivityService.GetWeeklySummary(ctx, app.CurrentUserID, now)
	if err != nil {
		return fmt.Errorf("failed to load weekly summary: %w", err)
	}
	if week.CurrentStreak > 0 {
		fmt.Fprintf(out, "    Streak: %d days\n", week.CurrentStreak)
	}
	return nil
}

func getPriorityIcon(priority string) string {
	switch priority {
	case "high":
		return "[!!]"
	case "medium":
		return "[! ]"
	case "low":
		return "[  ]"
	default:
		return "[??]"
	}
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
