package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	activityApp "github.com/felixgeelhaar/pulse/internal/activity/application"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks or activity records",
	Long: `Export the last --days days.

Formats:
  ics   tasks as iCalendar events, for Google Calendar, Outlook or Apple Calendar
  csv   one activity record per line
  json  activity records as a JSON array

Examples:
  pulse export --format ics -o tasks.ics
  pulse export --format csv --days 90 > activity.csv
  pulse export --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ActivityService == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := security.CreateFile(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to open output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		n, err := Export(cmd.Context(), out, app, exportFormat, exportDays)
		if err != nil {
			return err
		}

		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", n, exportOutput)
		}
		return nil
	},
}

// Export writes the last days days, today included, to out in the given
// format and returns the number of exported records.
func Export(ctx context.Context, out io.Writer, app *App, format string, days int) (int, error) {
	if days <= 0 || days > domain.MaxTrendPeriod {
		return 0, fmt.Errorf("--days must be between 1 and %d", domain.MaxTrendPeriod)
	}

	end := app.ActivityService.Now()
	start := end.AddDate(0, 0, -(days - 1))

	switch strings.ToLower(format) {
	case "ics", "ical":
		return exportICS(ctx, out, app, start, days)
	case "csv":
		return exportActivity(ctx, out, app, start, end, writeActivityCSV)
	case "json":
		return exportActivity(ctx, out, app, start, end, writeActivityJSON)
	default:
		return 0, fmt.Errorf("unsupported format: %s (supported: ics, csv, json)", format)
	}
}

func exportICS(ctx context.Context, out io.Writer, app *App, start time.Time, days int) (int, error) {
	if app.ListTasksHandler == nil {
		return 0, fmt.Errorf("application not initialized - database connection required")
	}

	loc := app.ActivityService.Location()
	var tasks []queries.TaskDTO
	for i := range days {
		day := start.AddDate(0, 0, i)
		dayTasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
			UserID:   app.CurrentUserID,
			Day:      &day,
			Location: loc,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to list tasks: %w", err)
		}
		tasks = append(tasks, dayTasks...)
	}

	_, err := io.WriteString(out, generateICS(tasks, time.Now()))
	return len(tasks), err
}

func exportActivity(
	ctx context.Context,
	out io.Writer,
	app *App,
	start, end time.Time,
	write func(io.Writer, []activityApp.ActivityDTO) error,
) (int, error) {
	activities, err := app.ActivityService.ListActivities(ctx, app.CurrentUserID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list activity: %w", err)
	}
	return len(activities), write(out, activities)
}

var activityCSVHeader = []string{
	"date", "total_tasks", "completed_tasks", "total_hours", "productivity_score", "intensity",
	"average_focus_level", "average_difficulty",
	"work", "personal", "health", "learning", "other",
	"high", "medium", "low", "notes",
}

func writeActivityCSV(out io.Writer, activities []activityApp.ActivityDTO) error {
	w := csv.NewWriter(out)
	if err := w.Write(activityCSVHeader); err != nil {
		return err
	}
	for _, a := range activities {
		c, p := a.TasksByCategory, a.TasksByPriority
		record := []string{
			a.Date,
			strconv.Itoa(a.TotalTasks),
			strconv.Itoa(a.CompletedTasks),
			strconv.FormatFloat(a.TotalHours, 'f', 1, 64),
			strconv.Itoa(a.ProductivityScore),
			strconv.Itoa(a.Intensity),
			strconv.FormatFloat(a.AverageFocusLevel, 'f', 1, 64),
			strconv.FormatFloat(a.AverageDifficulty, 'f', 1, 64),
			strconv.Itoa(c.Work), strconv.Itoa(c.Personal), strconv.Itoa(c.Health), strconv.Itoa(c.Learning), strconv.Itoa(c.Other),
			strconv.Itoa(p.High), strconv.Itoa(p.Medium), strconv.Itoa(p.Low),
			a.Notes,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeActivityJSON(out io.Writer, activities []activityApp.ActivityDTO) error {
	if activities == nil {
		activities = []activityApp.ActivityDTO{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(activities)
}

func generateICS(tasks []queries.TaskDTO, stamp time.Time) string {
	var sb strings.Builder

	// ICS header
	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	sb.WriteString("PRODID:-//Pulse//Pulse CLI//EN\r\n")
	sb.WriteString("CALSCALE:GREGORIAN\r\n")
	sb.WriteString("METHOD:PUBLISH\r\n")
	sb.WriteString("X-WR-CALNAME:Pulse Tasks\r\n")

	for _, t := range tasks {
		sb.WriteString("BEGIN:VEVENT\r\n")
		sb.WriteString(fmt.Sprintf("UID:%s@pulse\r\n", t.ID.String()))
		sb.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))
		sb.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(t.StartTime)))
		sb.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(t.EndTime)))
		sb.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(t.Title)))

		desc := fmt.Sprintf("Priority: %s\\nDifficulty: %d/5\\nFocus: %d/5", t.Priority, t.Difficulty, t.FocusLevel)
		if t.Description != "" {
			desc = escapeICS(t.Description) + "\\n" + desc
		}
		sb.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", desc))
		sb.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.ToUpper(t.Category)))

		switch t.Status {
		case "completed":
			sb.WriteString("STATUS:CONFIRMED\r\n")
		case "cancelled":
			sb.WriteString("STATUS:CANCELLED\r\n")
		default:
			sb.WriteString("STATUS:TENTATIVE\r\n")
		}

		sb.WriteString("END:VEVENT\r\n")
	}

	sb.WriteString("END:VCALENDAR\r\n")

	return sb.String()
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escapeICS(s string) string {
	// Escape special characters in ICS format
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "ics", "export format (ics, csv, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().IntVarP(&exportDays, "days", "d", 30, "number of days to export, today included")

	rootCmd.AddCommand(exportCmd)
}
