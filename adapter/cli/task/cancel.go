package task

import (
	"fmt"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [task-id]",
	Short: "Cancel a task",
	Long: `Cancel a task. Cancelled tasks still count towards the day's total
but can no longer be edited.

Examples:
  pulse task cancel abc123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CancelTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		taskID, err := resolveTaskID(ctx, app, args[0])
		if err != nil {
			return err
		}

		if err := app.CancelTaskHandler.Handle(ctx, commands.CancelTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to cancel task: %w", err)
		}
		if err := app.SyncActivity(ctx); err != nil {
			return fmt.Errorf("task cancelled but activity not updated: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task cancelled: %s\n", taskID)
		return nil
	},
}
