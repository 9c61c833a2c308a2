package task

import (
	"fmt"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long: `Delete a task permanently. The activity of the day it started on is
recomputed without it.

Examples:
  pulse task delete abc123`,
	Aliases: []string{"rm", "remove"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		taskID, err := resolveTaskID(ctx, app, args[0])
		if err != nil {
			return err
		}

		if err := app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if err := app.SyncActivity(ctx); err != nil {
			return fmt.Errorf("task deleted but activity not updated: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s\n", taskID)
		return nil
	},
}
