package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/pulse/adapter/cli"
	activityApp "github.com/felixgeelhaar/pulse/internal/activity/application"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

type activityDateInput struct {
	Date string `json:"date,omitempty"`
}

type activityListInput struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Days int    `json:"days,omitempty"`
}

type activityMonthInput struct {
	Month string `json:"month,omitempty"`
}

type activityTrendsInput struct {
	Days int `json:"days,omitempty"`
}

type activityNotesInput struct {
	Date  string `json:"date,omitempty"`
	Notes string `json:"notes"`
}

func registerActivityTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("activity.get").
		Description("Get the activity record of one day (default today)").
		Handler(func(ctx context.Context, input activityDateInput) (*activityApp.ActivityDTO, error) {
			return getActivity(ctx, app, input)
		})

	srv.Tool("activity.list").
		Description("List activity records between from and to, or for the last N days").
		Handler(func(ctx context.Context, input activityListInput) ([]activityApp.ActivityDTO, error) {
			return listActivities(ctx, app, input)
		})

	srv.Tool("activity.recompute").
		Description("Rebuild the activity record of one day from its tasks").
		Handler(func(ctx context.Context, input activityDateInput) (*activityApp.RecomputeResult, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			day, err := parseDay(app, input.Date)
			if err != nil {
				return nil, err
			}
			return app.ActivityService.Recompute(ctx, app.CurrentUserID, day)
		})

	srv.Tool("activity.weekly_summary").
		Description("Summarize the last seven days including today").
		Handler(func(ctx context.Context, input struct{}) (*domain.WeeklySummary, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			return app.ActivityService.GetWeeklySummary(ctx, app.CurrentUserID, now(app))
		})

	srv.Tool("activity.monthly_summary").
		Description("Summarize one calendar month (YYYY-MM, default current month)").
		Handler(func(ctx context.Context, input activityMonthInput) (*domain.MonthlySummary, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			year, month, err := parseMonth(app, input.Month)
			if err != nil {
				return nil, err
			}
			return app.ActivityService.GetMonthlySummary(ctx, app.CurrentUserID, year, month)
		})

	srv.Tool("activity.trends").
		Description(fmt.Sprintf("Daily score, hours and completions over a period (default %d days)", domain.DefaultTrendPeriod)).
		Handler(func(ctx context.Context, input activityTrendsInput) (*domain.Trends, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			return app.ActivityService.GetTrends(ctx, app.CurrentUserID, input.Days, now(app))
		})

	srv.Tool("activity.heatmap").
		Description("Intensity per day of one calendar month (YYYY-MM, default current month)").
		Handler(func(ctx context.Context, input activityMonthInput) ([]domain.HeatmapCell, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			year, month, err := parseMonth(app, input.Month)
			if err != nil {
				return nil, err
			}
			return app.ActivityService.GetHeatmap(ctx, app.CurrentUserID, year, month)
		})

	srv.Tool("activity.set_notes").
		Description(fmt.Sprintf("Attach notes (up to %d characters) to a day; empty notes clear them", domain.MaxNotesLength)).
		Handler(func(ctx context.Context, input activityNotesInput) (*activityApp.ActivityDTO, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			day, err := parseDay(app, input.Date)
			if err != nil {
				return nil, err
			}
			return app.ActivityService.SetNotes(ctx, app.CurrentUserID, day, input.Notes)
		})

	srv.Tool("activity.context").
		Description("Productivity context of the last week for an assistant conversation").
		Handler(func(ctx context.Context, input struct{}) (*domain.ProductivityContext, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			return app.ActivityService.GetProductivityContext(ctx, app.CurrentUserID, now(app))
		})

	return nil
}

func getActivity(ctx context.Context, app *cli.App, input activityDateInput) (*activityApp.ActivityDTO, error) {
	if app == nil || app.ActivityService == nil {
		return nil, errActivityUnavailable
	}
	day, err := parseDay(app, input.Date)
	if err != nil {
		return nil, err
	}
	activity, err := app.ActivityService.GetActivity(ctx, app.CurrentUserID, day)
	if errors.Is(err, domain.ErrActivityNotFound) {
		return nil, fmt.Errorf("no activity recorded on %s", domain.DateKey(day))
	}
	return activity, err
}

func listActivities(ctx context.Context, app *cli.App, input activityListInput) ([]activityApp.ActivityDTO, error) {
	if app == nil || app.ActivityService == nil {
		return nil, errActivityUnavailable
	}
	if input.From == "" && input.To == "" {
		days := input.Days
		if days <= 0 {
			days = domain.WeekDays
		}
		return app.ActivityService.RecentActivities(ctx, app.CurrentUserID, days)
	}

	end, err := parseDay(app, input.To)
	if err != nil {
		return nil, err
	}
	start := end.AddDate(0, 0, -(domain.WeekDays - 1))
	if input.From != "" {
		if start, err = parseDay(app, input.From); err != nil {
			return nil, err
		}
	}
	return app.ActivityService.ListActivities(ctx, app.CurrentUserID, start, end)
}
