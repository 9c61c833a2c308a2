package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var (
	category    string
	priority    string
	difficulty  int
	focusLevel  int
	startAt     string
	endAt       string
	duration    int
	description string
	tags        string
	notes       string
	completed   bool
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new timed task. The start defaults to now and the end to
start plus --duration minutes.

Examples:
  pulse task create "Write report" --start "2026-03-10 09:00" --end "2026-03-10 11:00"
  pulse task create "Review PR" -p high --category work --duration 30
  pulse task create "Run" --category health --start 07:00 --done`,
	Aliases: []string{"add", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		now := currentTime(app)
		start := now.Truncate(time.Minute)
		if startAt != "" {
			parsed, err := parseWhen(startAt, now)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			start = parsed
		}

		end := start.Add(time.Duration(duration) * time.Minute)
		if endAt != "" {
			parsed, err := parseWhen(endAt, start)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			end = parsed
		}

		title := args[0]
		createTaskCmd := commands.CreateTaskCommand{
			UserID:      app.CurrentUserID,
			Title:       title,
			Description: description,
			Category:    category,
			Priority:    priority,
			Difficulty:  difficulty,
			FocusLevel:  focusLevel,
			StartTime:   start,
			EndTime:     end,
			Tags:        splitTags(tags),
			Notes:       notes,
			Completed:   completed,
		}

		ctx := cmd.Context()
		result, err := app.CreateTaskHandler.Handle(ctx, createTaskCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if err := app.SyncActivity(ctx); err != nil {
			return fmt.Errorf("task created but activity not updated: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", result.TaskID)
		fmt.Fprintf(out, "  title: %s\n", title)
		fmt.Fprintf(out, "  when:  %s - %s\n", start.Format(dateTimeLayout), end.Format(clockLayout))
		if priority != "" {
			fmt.Fprintf(out, "  priority: %s\n", priority)
		}
		if category != "" {
			fmt.Fprintf(out, "  category: %s\n", category)
		}

		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&category, "category", "", "task category (work, personal, health, learning, other)")
	createCmd.Flags().StringVarP(&priority, "priority", "p", "", "task priority (low, medium, high)")
	createCmd.Flags().IntVar(&difficulty, "difficulty", 0, "difficulty rating 1-5 (default 3)")
	createCmd.Flags().IntVar(&focusLevel, "focus", 0, "focus rating 1-5 (default 3)")
	createCmd.Flags().StringVar(&startAt, "start", "", "start time (YYYY-MM-DD HH:MM or HH:MM)")
	createCmd.Flags().StringVar(&endAt, "end", "", "end time (YYYY-MM-DD HH:MM or HH:MM)")
	createCmd.Flags().IntVarP(&duration, "duration", "d", 60, "duration in minutes when --end is not given")
	createCmd.Flags().StringVar(&description, "description", "", "task description")
	createCmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	createCmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	createCmd.Flags().BoolVar(&completed, "done", false, "record the task as already completed")
}
