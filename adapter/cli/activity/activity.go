// Package activity holds the commands that read and maintain daily
// activity records.
package activity

import (
	"github.com/spf13/cobra"
)

var jsonOutput bool

// Cmd is the activity command group
var Cmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"act"},
	Short:   "Inspect daily activity and productivity summaries",
	Long: `Show daily activity records, weekly and monthly summaries, trends
and a month heatmap. Records are rebuilt from tasks whenever a task
changes; recompute forces a rebuild of one day.`,
}

func init() {
	Cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(recomputeCmd)
	Cmd.AddCommand(weekCmd)
	Cmd.AddCommand(monthCmd)
	Cmd.AddCommand(trendsCmd)
	Cmd.AddCommand(heatmapCmd)
	Cmd.AddCommand(notesCmd)
	Cmd.AddCommand(contextCmd)
}
