package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id-prefix>",
	Short: "Mark a task as complete",
	Long: `Quickly mark a task as complete using just the first few characters of its ID.

Only pending and in-progress tasks are searched.
If multiple tasks match, you'll be shown the options.

Examples:
  pulse done abc1      # Complete the task starting with abc1
  pulse done           # Show completable tasks`,
	Aliases: []string{"finish", "x"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListTasksHandler == nil || app.CompleteTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		out := cmd.OutOrStdout()
		open, err := OpenTasks(cmd.Context(), app)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			showCompletableTasks(out, open)
			return nil
		}

		return completeByPrefix(cmd.Context(), out, app, open, strings.ToLower(args[0]))
	},
}

// OpenTasks returns the pending and in-progress tasks of the current user.
func OpenTasks(ctx context.Context, app *App) ([]queries.TaskDTO, error) {
	var open []queries.TaskDTO
	for _, status := range []string{"in-progress", "pending"} {
		tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
			UserID: app.CurrentUserID,
			Status: status,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		open = append(open, tasks...)
	}
	return open, nil
}

func showCompletableTasks(out io.Writer, tasks []queries.TaskDTO) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "Nothing left to complete.")
		return
	}

	fmt.Fprintln(out, "Completable tasks:")
	for _, t := range tasks {
		fmt.Fprintf(out, "  [%s] %s\n", t.ID.String()[:8], t.Title)
	}
	fmt.Fprintln(out, "\nUsage: pulse done <id-prefix>")
}

func completeByPrefix(ctx context.Context, out io.Writer, app *App, tasks []queries.TaskDTO, prefix string) error {
	var matches []queries.TaskDTO
	for _, t := range tasks {
		if strings.HasPrefix(t.ID.String(), prefix) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return fmt.Errorf("no open task found matching '%s'", prefix)
	case 1:
	default:
		fmt.Fprintln(out, "Multiple tasks match. Be more specific:")
		for _, t := range matches {
			fmt.Fprintf(out, "  [%s] %s\n", t.ID.String()[:8], t.Title)
		}
		return nil
	}

	task := matches[0]
	err := app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
		TaskID: task.ID,
		UserID: app.CurrentUserID,
	})
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if err := app.SyncActivity(ctx); err != nil {
		return fmt.Errorf("task completed but activity not updated: %w", err)
	}

	fmt.Fprintf(out, "Task completed: %s\n", task.Title)
	return nil
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
