package activity

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute [date]",
	Short: "Rebuild the activity record of a day from its tasks",
	Long: `Rebuild the activity record of a day from the tasks starting on it.
A day left without tasks or notes loses its record.

Examples:
  pulse activity recompute
  pulse activity recompute 2026-03-10`,
	Aliases: []string{"rebuild"},
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

		result, err := app.ActivityService.Recompute(cmd.Context(), app.CurrentUserID, day)
		if err != nil {
			return fmt.Errorf("failed to recompute activity: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, result)
		}
		switch {
		case result.Cleared && result.Activity != nil:
			fmt.Fprintf(out, "No tasks on %s, activity reset and notes kept.\n", result.Date)
		case result.Cleared:
			fmt.Fprintf(out, "No tasks on %s, activity record removed.\n", result.Date)
		case result.Activity != nil:
			fmt.Fprintf(out, "Recomputed %s.\n", result.Date)
			printActivity(out, result.Activity)
		default:
			fmt.Fprintf(out, "No tasks on %s.\n", result.Date)
		}
		return nil
	},
}
