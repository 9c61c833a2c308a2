package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/google/uuid"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	clockLayout    = "15:04"
)

// resolveTaskID accepts a full task ID or a unique prefix of one.
func resolveTaskID(ctx context.Context, app *cli.App, arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	prefix := strings.ToLower(strings.TrimSpace(arg))
	if len(prefix) < 4 || app.ListTasksHandler == nil {
		return uuid.Nil, fmt.Errorf("invalid task ID: %q", arg)
	}

	tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{UserID: app.CurrentUserID})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up task: %w", err)
	}

	var matches []uuid.UUID
	for _, t := range tasks {
		if strings.HasPrefix(t.ID.String(), prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("no task matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%d tasks match %q, use a longer prefix", len(matches), arg)
	}
}

// parseWhen reads "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM" or a bare "HH:MM"
// on the day of now.
func parseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	loc := now.Location()
	for _, layout := range []string{dateTimeLayout, "2006-01-02T15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if clock, err := time.ParseInLocation(clockLayout, s, loc); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD HH:MM or HH:MM)", s)
}

func currentTime(app *cli.App) time.Time {
	if app.ActivityService != nil {
		return app.ActivityService.Now()
	}
	return time.Now()
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func formatStatus(status string) string {
	switch status {
	case "pending":
		return "Pending"
	case "in-progress":
		return "In Progress"
	case "completed":
		return "Completed"
	case "cancelled":
		return "Cancelled"
	default:
		return status
	}
}

func formatPriority(priority string) string {
	switch priority {
	case "low":
		return "Low"
	case "medium":
		return "Medium"
	case "high":
		return "High"
	default:
		return priority
	}
}

func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

func getStatusIcon(status string) string {
	switch status {
	case "completed":
		return "[x]"
	case "in-progress":
		return "[>]"
	case "cancelled":
		return "[-]"
	default:
		return "[ ]"
	}
}

func getPriorityBadge(priority string) string {
	switch priority {
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}
