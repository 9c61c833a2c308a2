package activity

import (
	"errors"
	"fmt"
	"io"

	activityApp "github.com/felixgeelhaar/pulse/internal/activity/application"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the activity record of a day",
	Long: `Show the activity record of a day (YYYY-MM-DD, today or yesterday).

Examples:
  pulse activity show
  pulse activity show 2026-03-10`,
	Aliases: []string{"day", "get"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		day, err := parseDay(app, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		activity, err := app.ActivityService.GetActivity(cmd.Context(), app.CurrentUserID, day)
		if errors.Is(err, domain.ErrActivityNotFound) {
			fmt.Fprintf(out, "No activity recorded on %s.\n", domain.DateKey(day))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get activity: %w", err)
		}

		if jsonOutput {
			return writeJSON(out, activity)
		}
		printActivity(out, activity)
		return nil
	},
}

func printActivity(out io.Writer, a *activityApp.ActivityDTO) {
	fmt.Fprintf(out, "Activity: %s\n", a.Date)
	fmt.Fprintf(out, "  Tasks:        %d (%d completed)\n", a.TotalTasks, a.CompletedTasks)
	fmt.Fprintf(out, "  Hours:        %s\n", formatHours(a.TotalHours))
	fmt.Fprintf(out, "  Productivity: %d/100\n", a.ProductivityScore)
	fmt.Fprintf(out, "  Intensity:    %s %d\n", intensityBar(a.Intensity), a.Intensity)
	fmt.Fprintf(out, "  Focus:        %.1f\n", a.AverageFocusLevel)
	fmt.Fprintf(out, "  Difficulty:   %.1f\n", a.AverageDifficulty)

	c := a.TasksByCategory
	fmt.Fprintf(out, "  Categories:   work %d, personal %d, health %d, learning %d, other %d\n",
		c.Work, c.Personal, c.Health, c.Learning, c.Other)
	p := a.TasksByPriority
	fmt.Fprintf(out, "  Priorities:   high %d, medium %d, low %d\n", p.High, p.Medium, p.Low)

	if a.Notes != "" {
		fmt.Fprintf(out, "  Notes:        %s\n", a.Notes)
	}
}
