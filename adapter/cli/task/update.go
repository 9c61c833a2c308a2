package task

import (
	"fmt"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var (
	updateTitle       string
	updateDescription string
	updateCategory    string
	updatePriority    string
	updateDifficulty  int
	updateFocus       int
	updateStart       string
	updateEnd         string
	updateTags        string
	updateNotes       string
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update the properties of an existing task. Moving a task to another
day recomputes the activity of both days.

Examples:
  pulse task update abc123 --title "New title"
  pulse task update abc123 --priority high --focus 5
  pulse task update abc123 --start "2026-03-11 09:00" --end "2026-03-11 10:30"`,
	Aliases: []string{"edit", "modify"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		taskID, err := resolveTaskID(ctx, app, args[0])
		if err != nil {
			return err
		}

		updateTaskCmd := commands.UpdateTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}

		flags := cmd.Flags()
		flagsProvided := false

		if flags.Changed("title") {
			updateTaskCmd.Title = &updateTitle
			flagsProvided = true
		}
		if flags.Changed("description") {
			updateTaskCmd.Description = &updateDescription
			flagsProvided = true
		}
		if flags.Changed("category") {
			updateTaskCmd.Category = &updateCategory
			flagsProvided = true
		}
		if flags.Changed("priority") {
			updateTaskCmd.Priority = &updatePriority
			flagsProvided = true
		}
		if flags.Changed("difficulty") {
			updateTaskCmd.Difficulty = &updateDifficulty
			flagsProvided = true
		}
		if flags.Changed("focus") {
			updateTaskCmd.FocusLevel = &updateFocus
			flagsProvided = true
		}

		now := currentTime(app)
		if flags.Changed("start") {
			start, err := parseWhen(updateStart, now)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			updateTaskCmd.StartTime = &start
			flagsProvided = true
		}
		if flags.Changed("end") {
			ref := now
			if updateTaskCmd.StartTime != nil {
				ref = *updateTaskCmd.StartTime
			}
			end, err := parseWhen(updateEnd, ref)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			updateTaskCmd.EndTime = &end
			flagsProvided = true
		}

		if flags.Changed("tags") {
			updateTaskCmd.Tags = splitTags(updateTags)
			if updateTaskCmd.Tags == nil {
				updateTaskCmd.Tags = []string{}
			}
			flagsProvided = true
		}
		if flags.Changed("notes") {
			updateTaskCmd.Notes = &updateNotes
			flagsProvided = true
		}

		if !flagsProvided {
			return fmt.Errorf("no updates provided - use flags like --title, --priority, --start or --end")
		}

		if err := app.UpdateTaskHandler.Handle(ctx, updateTaskCmd); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if err := app.SyncActivity(ctx); err != nil {
			return fmt.Errorf("task updated but activity not updated: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task updated: %s\n", taskID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title for the task")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description for the task")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "new category (work, personal, health, learning, other)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority (low, medium, high)")
	updateCmd.Flags().IntVar(&updateDifficulty, "difficulty", 0, "new difficulty rating 1-5")
	updateCmd.Flags().IntVar(&updateFocus, "focus", 0, "new focus rating 1-5")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "new start time (YYYY-MM-DD HH:MM or HH:MM)")
	updateCmd.Flags().StringVar(&updateEnd, "end", "", "new end time (YYYY-MM-DD HH:MM or HH:MM)")
	updateCmd.Flags().StringVar(&updateTags, "tags", "", "replace tags (comma separated, empty clears)")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "new notes")
}
