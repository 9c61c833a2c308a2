package activity

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/spf13/cobra"
)

var trendDays int

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show productivity over the last days",
	Long: `Show the recorded days of the last --days days, oldest first.

Examples:
  pulse activity trends
  pulse activity trends --days 90`,
	Aliases: []string{"trend"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		svc := app.ActivityService
		trends, err := svc.GetTrends(cmd.Context(), app.CurrentUserID, trendDays, svc.Now())
		if err != nil {
			return fmt.Errorf("failed to get trends: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, trends)
		}

		fmt.Fprintf(out, "Trends %s to %s (%d days)\n", trends.StartDate, trends.EndDate, trends.PeriodDays)
		if len(trends.Points) == 0 {
			fmt.Fprintln(out, "No activity recorded.")
			return nil
		}
		for _, p := range trends.Points {
			fmt.Fprintf(out, "  %s  %-20s %3d  %6s  %d done\n",
				p.Date, scoreBar(p.ProductivityScore), p.ProductivityScore, formatHours(p.TotalHours), p.CompletedTasks)
		}
		return nil
	},
}

// scoreBar renders a score 0-100 as up to 20 cells.
func scoreBar(score int) string {
	score = max(0, min(score, domain.MaxScore))
	return strings.Repeat("=", score/5)
}

func init() {
	trendsCmd.Flags().IntVarP(&trendDays, "days", "n", domain.DefaultTrendPeriod, "length of the period in days")
}
