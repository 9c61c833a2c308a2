package activity

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [YYYY-MM]",
	Short: "Show a month as an intensity calendar",
	Long: `Show one cell per day of a month, shaded by intensity (0-5), laid
out as a Monday-first calendar.

Examples:
  pulse activity heatmap
  pulse activity heatmap 2026-02 --json`,
	Aliases: []string{"calendar"},
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

		cells, err := app.ActivityService.GetHeatmap(cmd.Context(), app.CurrentUserID, year, month)
		if err != nil {
			return fmt.Errorf("failed to get heatmap: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, cells)
		}

		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		fmt.Fprintf(out, "%s %d\n", first.Month(), year)
		fmt.Fprintln(out, "Mo Tu We Th Fr Sa Su")

		// Monday-first column of the 1st.
		col := (int(first.Weekday()) + 6) % 7
		for range col {
			fmt.Fprint(out, "   ")
		}
		for _, cell := range cells {
			fmt.Fprintf(out, "%s%s ", heatGlyph(cell.Intensity), heatGlyph(cell.Intensity))
			col++
			if col == 7 {
				fmt.Fprintln(out)
				col = 0
			}
		}
		if col != 0 {
			fmt.Fprintln(out)
		}
		return nil
	},
}
