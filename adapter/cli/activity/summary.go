package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Summarize the last seven days",
	Long: `Summarize the seven days ending today: completed tasks, hours, average
productivity, the current streak and the best days.`,
	Aliases: []string{"weekly"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		svc := app.ActivityService
		summary, err := svc.GetWeeklySummary(cmd.Context(), app.CurrentUserID, svc.Now())
		if err != nil {
			return fmt.Errorf("failed to get weekly summary: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, summary)
		}

		fmt.Fprintf(out, "Week %s to %s\n", summary.StartDate, summary.EndDate)
		fmt.Fprintf(out, "  Completed tasks: %d\n", summary.TotalTasks)
		fmt.Fprintf(out, "  Hours:           %s\n", formatHours(summary.TotalHours))
		fmt.Fprintf(out, "  Productivity:    %d/100 average\n", summary.AverageProductivity)
		fmt.Fprintf(out, "  Streak:          %d days\n", summary.CurrentStreak)
		if summary.BestDay != nil {
			fmt.Fprintf(out, "  Best day:        %s (%d)\n", summary.BestDay.Date, summary.BestDay.Score)
		}
		if summary.HighestHoursDay != nil {
			fmt.Fprintf(out, "  Longest day:     %s (%s)\n", summary.HighestHoursDay.Date, formatHours(summary.HighestHoursDay.Hours))
		}

		fmt.Fprintln(out)
		for _, d := range summary.DailyData {
			fmt.Fprintf(out, "  %s  %s  %3d  %6s  %d done\n",
				d.Date, intensityBar(d.Intensity), d.ProductivityScore, formatHours(d.TotalHours), d.CompletedTasks)
		}
		return nil
	},
}

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Summarize a calendar month",
	Long: `Summarize a calendar month: tasks, completion rate, hours, average
productivity, active days and the category and priority mix.

Examples:
  pulse activity month
  pulse activity month 2026-02`,
	Aliases: []string{"monthly"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		year, month, err := parseMonth(app, args)
		if err != nil {
			return err
		}

		summary, err := app.ActivityService.GetMonthlySummary(cmd.Context(), app.CurrentUserID, year, month)
		if err != nil {
			return fmt.Errorf("failed to get monthly summary: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, summary)
		}

		fmt.Fprintf(out, "%s %d\n", time.Month(summary.Month), summary.Year)
		fmt.Fprintln(out, strings.Repeat("-", 40))
		fmt.Fprintf(out, "  Tasks:           %d (%d completed, %d%%)\n", summary.TotalTasks, summary.CompletedTasks, summary.CompletionRate)
		fmt.Fprintf(out, "  Hours:           %s\n", formatHours(summary.TotalHours))
		fmt.Fprintf(out, "  Productivity:    %d/100 average\n", summary.AverageProductivity)
		fmt.Fprintf(out, "  Active days:     %d\n", summary.ActiveDays)

		c := summary.ByCategory
		fmt.Fprintf(out, "  Categories:      work %d, personal %d, health %d, learning %d, other %d\n",
			c.Work, c.Personal, c.Health, c.Learning, c.Other)
		p := summary.ByPriority
		fmt.Fprintf(out, "  Priorities:      high %d, medium %d, low %d\n", p.High, p.Medium, p.Low)
		return nil
	},
}
