package mcp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/google/uuid"
)

const dateTimeLayout = "2006-01-02 15:04"

var errActivityUnavailable = errors.New("activity requires database connection")

func location(app *cli.App) *time.Location {
	if app.ActivityService != nil {
		return app.ActivityService.Location()
	}
	return time.Local
}

func now(app *cli.App) time.Time {
	if app.ActivityService != nil {
		return app.ActivityService.Now()
	}
	return time.Now()
}

// parseDay reads a YYYY-MM-DD date in the user's zone; empty means today.
func parseDay(app *cli.App, value string) (time.Time, error) {
	if value == "" {
		return now(app), nil
	}
	return domain.ParseDate(value, location(app))
}

func parseDateTime(app *cli.App, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateTimeLayout, value, location(app))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, use RFC3339 or YYYY-MM-DD HH:MM", value)
	}
	return t, nil
}

func parseOptionalDateTime(app *cli.App, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDateTime(app, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseMonth(app *cli.App, value string) (int, int, error) {
	if value == "" {
		n := now(app)
		return n.Year(), int(n.Month()), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, use YYYY-MM", value)
	}
	return t.Year(), int(t.Month()), nil
}
