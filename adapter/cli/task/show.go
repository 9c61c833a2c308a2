package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Long: `Display detailed information about a specific task.

Examples:
  pulse task show abc123
  pulse task show 550e8400-e29b-41d4-a716-446655440000`,
	Aliases: []string{"get", "view"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		taskID, err := resolveTaskID(ctx, app, args[0])
		if err != nil {
			return err
		}

		task, err := app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		loc := currentTime(app).Location()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task: %s\n", task.ID)
		fmt.Fprintf(out, "  Title:       %s\n", task.Title)
		fmt.Fprintf(out, "  Status:      %s\n", formatStatus(task.Status))
		fmt.Fprintf(out, "  Category:    %s\n", task.Category)
		fmt.Fprintf(out, "  Priority:    %s\n", formatPriority(task.Priority))
		fmt.Fprintf(out, "  Difficulty:  %d/5\n", task.Difficulty)
		fmt.Fprintf(out, "  Focus:       %d/5\n", task.FocusLevel)
		fmt.Fprintf(out, "  Start:       %s\n", task.StartTime.In(loc).Format(dateTimeLayout))
		fmt.Fprintf(out, "  End:         %s\n", task.EndTime.In(loc).Format(dateTimeLayout))
		fmt.Fprintf(out, "  Duration:    %s\n", formatDuration(task.DurationMinutes))

		if task.Description != "" {
			fmt.Fprintf(out, "  Description: %s\n", task.Description)
		}
		if len(task.Tags) > 0 {
			fmt.Fprintf(out, "  Tags:        %s\n", strings.Join(task.Tags, ", "))
		}
		if task.Notes != "" {
			fmt.Fprintf(out, "  Notes:       %s\n", task.Notes)
		}
		if task.CompletedAt != nil {
			fmt.Fprintf(out, "  Completed:   %s\n", task.CompletedAt.In(loc).Format(dateTimeLayout))
		}

		fmt.Fprintf(out, "  Created:     %s\n", task.CreatedAt.In(loc).Format(dateTimeLayout))

		return nil
	},
}
