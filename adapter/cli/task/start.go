package task

import (
	"fmt"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start working on a task",
	Long: `Mark a task as in progress to indicate you're actively working on it.

Examples:
  pulse task start abc123
  pulse task start 550e8400-e29b-41d4-a716-446655440000`,
	Aliases: []string{"begin", "work"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.StartTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		taskID, err := resolveTaskID(ctx, app, args[0])
		if err != nil {
			return err
		}

		if err := app.StartTaskHandler.Handle(ctx, commands.StartTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}
		if err := app.SyncActivity(ctx); err != nil {
			return fmt.Errorf("task started but activity not updated: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task started: %s\n", taskID)
		return nil
	},
}
