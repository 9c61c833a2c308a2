package cli

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// defaultQuickAddDuration is used when the input names no duration.
const defaultQuickAddDuration = time.Hour

var addDone bool

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Quick add a task with natural language",
	Long: `Quickly add a task using natural language.

The command parses your input to extract:
- Task title (required)
- Day: today, tomorrow, yesterday, monday-sunday, or YYYY-MM-DD
- Start time: at 9, at 14:30, at 9am
- Duration: 30min, 1h, 2 hours (default 1 hour)
- Priority: high, low (or !!, !)
- Category: #work, #personal, #health, #learning, #other

Examples:
  pulse add "Write report at 9 for 2h #work"
  pulse add "Gym yesterday at 18:00 45min #health" --done
  pulse add "Read chapter 3 tomorrow at 20 #learning low priority"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		result, err := QuickAdd(cmd.Context(), app, strings.Join(args, " "), addDone)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Task created!")
		fmt.Fprintf(out, "  Title: %s\n", result.Title)
		fmt.Fprintf(out, "  ID: %s\n", result.TaskID.String()[:8])
		fmt.Fprintf(out, "  When: %s (%d min)\n", result.Start.Format("Mon, Jan 2 2006 15:04"), result.DurationMinutes)
		if result.Priority != "" {
			fmt.Fprintf(out, "  Priority: %s\n", result.Priority)
		}
		if result.Category != "" {
			fmt.Fprintf(out, "  Category: %s\n", result.Category)
		}

		return nil
	},
}

// QuickAddResult describes a task created from a natural language line.
type QuickAddResult struct {
	TaskID          uuid.UUID `json:"task_id"`
	Title           string    `json:"title"`
	Category        string    `json:"category,omitempty"`
	Priority        string    `json:"priority,omitempty"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
}

// QuickAdd parses input, creates the task and brings the day's activity up
// to date.
func QuickAdd(ctx context.Context, app *App, input string, completed bool) (*QuickAddResult, error) {
	now := time.Now()
	if app.ActivityService != nil {
		now = app.ActivityService.Now()
	}
	parsed := parseNaturalLanguage(input, now)
	if parsed.title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	created, err := app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:    app.CurrentUserID,
		Title:     parsed.title,
		Category:  parsed.category,
		Priority:  parsed.priority,
		StartTime: parsed.start,
		EndTime:   parsed.start.Add(parsed.duration),
		Completed: completed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if err := app.SyncActivity(ctx); err != nil {
		return nil, fmt.Errorf("task created but activity not updated: %w", err)
	}

	return &QuickAddResult{
		TaskID:          created.TaskID,
		Title:           parsed.title,
		Category:        parsed.category,
		Priority:        parsed.priority,
		Start:           parsed.start,
		DurationMinutes: int(parsed.duration.Minutes()),
		Completed:       completed,
	}, nil
}

type parsedInput struct {
	title    string
	category string
	priority string
	duration time.Duration
	start    time.Time
}

var (
	categoryTagPattern = regexp.MustCompile(`(?i)#(work|personal|health|learning|other)\b`)
	startTimePattern   = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	isoDatePattern     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// parseNaturalLanguage extracts the task fields from input. Relative days
// are resolved against now; the start defaults to now on today and to 09:00
// on any other day.
func parseNaturalLanguage(input string, now time.Time) parsedInput {
	result := parsedInput{title: input}

	result.category, result.title = extractCategory(result.title)
	result.priority, result.title = extractPriority(result.title)

	var clock *time.Duration
	clock, result.title = extractStartTime(result.title)

	result.duration, result.title = extractDuration(result.title)
	if result.duration <= 0 {
		result.duration = defaultQuickAddDuration
	}

	var day *time.Time
	day, result.title = extractDay(result.title, now)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case clock != nil && day != nil:
		result.start = day.Add(*clock)
	case clock != nil:
		result.start = today.Add(*clock)
	case day != nil && !day.Equal(today):
		result.start = day.Add(9 * time.Hour)
	default:
		result.start = now.Truncate(time.Minute)
	}

	result.title = cleanTitle(result.title)
	return result
}

func extractCategory(input string) (string, string) {
	matches := categoryTagPattern.FindStringSubmatch(input)
	if len(matches) < 2 {
		return "", input
	}
	return strings.ToLower(matches[1]), categoryTagPattern.ReplaceAllString(input, "")
}

func extractPriority(input string) (string, string) {
	if strings.Contains(input, "!!") {
		return "high", strings.ReplaceAll(input, "!!", "")
	}
	if strings.Contains(input, "!") {
		return "medium", strings.ReplaceAll(input, "!", "")
	}

	keywords := []struct {
		keyword  string
		priority string
	}{
		{"high priority", "high"},
		{"medium priority", "medium"},
		{"low priority", "low"},
	}
	lower := strings.ToLower(input)
	for _, k := range keywords {
		if strings.Contains(lower, k.keyword) {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k.keyword) + `\b`)
			return k.priority, re.ReplaceAllString(input, "")
		}
	}

	return "", input
}

// extractStartTime returns the offset from midnight of an "at HH[:MM]"
// phrase.
func extractStartTime(input string) (*time.Duration, string) {
	matches := startTimePattern.FindStringSubmatch(input)
	if len(matches) < 2 {
		return nil, input
	}

	hour, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, input
	}
	minute := 0
	if matches[2] != "" {
		if minute, err = strconv.Atoi(matches[2]); err != nil {
			return nil, input
		}
	}
	switch strings.ToLower(matches[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return nil, input
	}

	offset := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
	return &offset, startTimePattern.ReplaceAllString(input, "")
}

func extractDuration(input string) (time.Duration, string) {
	// Patterns: 30min, 30 min, 1h, 1 hour, 2 hours, 1.5h
	patterns := []struct {
		regex      *regexp.Regexp
		multiplier time.Duration
	}{
		{regexp.MustCompile(`(?i)\b(?:for\s+)?(\d+(?:\.\d+)?)\s*h(?:ours?)?\b`), time.Hour},
		{regexp.MustCompile(`(?i)\b(?:for\s+)?(\d+)\s*min(?:utes?)?\b`), time.Minute},
	}

	for _, p := range patterns {
		if matches := p.regex.FindStringSubmatch(input); len(matches) > 1 {
			if val, err := strconv.ParseFloat(matches[1], 64); err == nil {
				return time.Duration(val * float64(p.multiplier)), p.regex.ReplaceAllString(input, "")
			}
		}
	}

	return 0, input
}

func extractDay(input string, now time.Time) (*time.Time, string) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	relativeDays := []struct {
		keyword string
		date    time.Time
	}{
		{"yesterday", today.AddDate(0, 0, -1)},
		{"tomorrow", today.AddDate(0, 0, 1)},
		{"today", today},
	}
	lower := strings.ToLower(input)
	for _, r := range relativeDays {
		if strings.Contains(lower, r.keyword) {
			d := r.date
			re := regexp.MustCompile(`(?i)\b` + r.keyword + `\b`)
			return &d, re.ReplaceAllString(input, "")
		}
	}

	days := []struct {
		name    string
		weekday time.Weekday
	}{
		{"monday", time.Monday},
		{"tuesday", time.Tuesday},
		{"wednesday", time.Wednesday},
		{"thursday", time.Thursday},
		{"friday", time.Friday},
		{"saturday", time.Saturday},
		{"sunday", time.Sunday},
	}
	for _, d := range days {
		re := regexp.MustCompile(`(?i)\b(?:on\s+|next\s+)?` + d.name + `\b`)
		if re.MatchString(input) {
			date := nextWeekday(today, d.weekday)
			return &date, re.ReplaceAllString(input, "")
		}
	}

	if matches := isoDatePattern.FindStringSubmatch(input); len(matches) > 1 {
		if date, err := time.ParseInLocation("2006-01-02", matches[1], now.Location()); err == nil {
			return &date, isoDatePattern.ReplaceAllString(input, "")
		}
	}

	return nil, input
}

func nextWeekday(from time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(from.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return from.AddDate(0, 0, daysUntil)
}

func cleanTitle(title string) string {
	title = whitespacePattern.ReplaceAllString(title, " ")

	// Remove common filler words at boundaries
	fillers := []string{"by", "for", "at", "on"}
	for _, filler := range fillers {
		title = regexp.MustCompile(`(?i)^\s*` + filler + `\s+`).ReplaceAllString(title, "")
		title = regexp.MustCompile(`(?i)\s+` + filler + `\s*$`).ReplaceAllString(title, "")
	}

	return strings.TrimSpace(title)
}

func init() {
	addCmd.Flags().BoolVar(&addDone, "done", false, "record the task as already completed")
	rootCmd.AddCommand(addCmd)
}
