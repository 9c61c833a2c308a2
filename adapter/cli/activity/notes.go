package activity

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearNotes bool

var notesCmd = &cobra.Command{
	Use:   "notes [date] [text]",
	Short: "Set the notes of a day",
	Long: `Set the free-text notes of a day (at most 500 characters). A day
without tasks gets an empty record to hold the notes.

Examples:
  pulse activity notes today "Shipped the release"
  pulse activity notes 2026-03-10 "Slow start, strong afternoon"
  pulse activity notes 2026-03-10 --clear`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		day, err := parseDay(app, args[:1])
		if err != nil {
			return err
		}

		text := ""
		switch {
		case clearNotes:
		case len(args) == 2:
			text = args[1]
		default:
			return fmt.Errorf("notes text is required (or use --clear)")
		}

		activity, err := app.ActivityService.SetNotes(cmd.Context(), app.CurrentUserID, day, text)
		if err != nil {
			return fmt.Errorf("failed to set notes: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, activity)
		}
		if text == "" {
			fmt.Fprintf(out, "Notes cleared for %s.\n", activity.Date)
		} else {
			fmt.Fprintf(out, "Notes saved for %s.\n", activity.Date)
		}
		return nil
	},
}

func init() {
	notesCmd.Flags().BoolVar(&clearNotes, "clear", false, "remove the notes of the day")
}
