package activity

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

var errNotInitialized = fmt.Errorf("application not initialized - database connection required")

func requireApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil || app.ActivityService == nil {
		return nil, errNotInitialized
	}
	return app, nil
}

// parseDay reads an optional YYYY-MM-DD argument, defaulting to today.
func parseDay(app *cli.App, args []string) (time.Time, error) {
	now := app.ActivityService.Now()
	if len(args) == 0 || args[0] == "" || args[0] == "today" {
		return now, nil
	}
	if args[0] == "yesterday" {
		return now.AddDate(0, 0, -1), nil
	}
	return domain.ParseDate(args[0], app.ActivityService.Location())
}

// parseMonth reads an optional YYYY-MM argument, defaulting to the current
// month.
func parseMonth(app *cli.App, args []string) (int, int, error) {
	now := app.ActivityService.Now()
	if len(args) == 0 || args[0] == "" {
		return now.Year(), int(now.Month()), nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (use YYYY-MM)", args[0])
	}
	return t.Year(), int(t.Month()), nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// intensityBar renders an intensity level 0-5 as a fixed width bar.
func intensityBar(level int) string {
	level = max(0, min(level, domain.MaxIntensity))
	return strings.Repeat("#", level) + strings.Repeat(".", domain.MaxIntensity-level)
}

// heatGlyph renders an intensity level as a single heatmap cell.
func heatGlyph(level int) string {
	glyphs := []string{".", "░", "▒", "▓", "█", "■"}
	level = max(0, min(level, len(glyphs)-1))
	return glyphs[level]
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}
