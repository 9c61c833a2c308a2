package task

import (
	"fmt"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a task as complete",
	Long: `Mark a task as complete by its ID or an ID prefix.

Examples:
  pulse task complete abc123
  pulse task complete 550e8400-e29b-41d4-a716-446655440000`,
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompleteTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		taskID, err := resolveTaskID(ctx, app, args[0])
		if err != nil {
			return err
		}

		if err := app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		if err := app.SyncActivity(ctx); err != nil {
			return fmt.Errorf("task completed but activity not updated: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task completed: %s\n", taskID)
		return nil
	},
}
