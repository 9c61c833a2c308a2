package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var (
	listDay        string
	listToday      bool
	status         string
	filterCategory string
	filterPriority string
	limit          int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks, newest start first, with optional filtering.

Filter Options:
  --day        Only tasks starting on a day (YYYY-MM-DD)
  --today      Only tasks starting today
  --status     Filter by status (pending, in-progress, completed, cancelled)
  --category   Filter by category (work, personal, health, learning, other)
  --priority   Filter by priority (low, medium, high)

Examples:
  pulse task list
  pulse task list --today
  pulse task list --day 2026-03-10 --status completed
  pulse task list --category work --limit 5`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		now := currentTime(app)
		query := queries.ListTasksQuery{
			UserID:   app.CurrentUserID,
			Location: now.Location(),
			Status:   status,
			Category: filterCategory,
			Priority: filterPriority,
			Limit:    limit,
		}

		switch {
		case listDay != "":
			day, err := domain.ParseDate(listDay, now.Location())
			if err != nil {
				return fmt.Errorf("invalid --day format, use YYYY-MM-DD: %w", err)
			}
			query.Day = &day
		case listToday:
			query.Day = &now
		}

		ctx := cmd.Context()
		tasks, err := app.ListTasksHandler.Handle(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
		fmt.Fprintln(out, strings.Repeat("-", 60))

		for _, t := range tasks {
			start := t.StartTime.In(now.Location())
			fmt.Fprintf(out, "%s %s %s [%s]\n", getStatusIcon(t.Status), t.Title, getPriorityBadge(t.Priority), t.Category)
			fmt.Fprintf(out, "   ID: %s\n", t.ID.String()[:8])
			fmt.Fprintf(out, "   When: %s (%s)\n", start.Format(dateTimeLayout), formatDuration(t.DurationMinutes))
			fmt.Fprintln(out)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDay, "day", "", "only tasks starting on this day (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listToday, "today", false, "only tasks starting today")
	listCmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (pending, in-progress, completed, cancelled)")
	listCmd.Flags().StringVar(&filterCategory, "category", "", "filter by category")
	listCmd.Flags().StringVarP(&filterPriority, "priority", "p", "", "filter by priority (low, medium, high)")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "max number of tasks to show (0 = no limit)")
}
