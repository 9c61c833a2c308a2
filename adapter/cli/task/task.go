package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long: `Create, list, start, complete and manage your timed tasks.

Every change is rolled up into the daily activity record of the day the
task starts on.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(startCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
}
