package activity

import (
	"fmt"
	"strings"

	activityApp "github.com/felixgeelhaar/pulse/internal/activity/application"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/spf13/cobra"
)

var (
	listFrom string
	listTo   string
	listDays int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List activity records",
	Long: `List activity records. Without a range the most recent days are shown,
newest first.

Examples:
  pulse activity list
  pulse activity list --days 14
  pulse activity list --from 2026-03-01 --to 2026-03-31`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		svc := app.ActivityService

		var activities []activityApp.ActivityDTO
		if listFrom != "" || listTo != "" {
			loc := svc.Location()
			start, end := svc.Now(), svc.Now()
			if listFrom != "" {
				if start, err = domain.ParseDate(listFrom, loc); err != nil {
					return err
				}
			}
			if listTo != "" {
				if end, err = domain.ParseDate(listTo, loc); err != nil {
					return err
				}
			}
			activities, err = svc.ListActivities(ctx, app.CurrentUserID, start, end)
		} else {
			activities, err = svc.RecentActivities(ctx, app.CurrentUserID, listDays)
		}
		if err != nil {
			return fmt.Errorf("failed to list activity: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, activities)
		}
		if len(activities) == 0 {
			fmt.Fprintln(out, "No activity recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-10s  %5s  %5s  %6s  %5s  %s\n", "DATE", "TASKS", "DONE", "HOURS", "SCORE", "INTENSITY")
		fmt.Fprintln(out, strings.Repeat("-", 52))
		for _, a := range activities {
			fmt.Fprintf(out, "%-10s  %5d  %5d  %6s  %5d  %s\n",
				a.Date, a.TotalTasks, a.CompletedTasks, formatHours(a.TotalHours), a.ProductivityScore, intensityBar(a.Intensity))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "first day (YYYY-MM-DD, default today)")
	listCmd.Flags().StringVar(&listTo, "to", "", "last day (YYYY-MM-DD, default today)")
	listCmd.Flags().IntVarP(&listDays, "days", "n", domain.WeekDays, "number of recent days when no range is given")
}
