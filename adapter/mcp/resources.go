package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	productivityQueries "github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
)

// RegisterResources registers MCP resources that expose pulse data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	if err := registerTaskResources(srv, deps); err != nil {
		return err
	}
	if err := registerActivityResources(srv, deps); err != nil {
		return err
	}
	return registerSystemResources(srv, deps)
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}

func registerTaskResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("pulse://tasks").
		Name("Tasks").
		Description("The most recent tasks of the current user").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListTasksHandler == nil {
				return nil, fmt.Errorf("task listing requires database connection")
			}

			tasks, err := app.ListTasksHandler.Handle(ctx, productivityQueries.ListTasksQuery{
				UserID: app.CurrentUserID,
				Limit:  100,
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, tasks)
		})

	srv.Resource("pulse://tasks/today").
		Name("Today's Tasks").
		Description("Tasks starting today in the user's timezone").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListTasksHandler == nil {
				return nil, fmt.Errorf("task listing requires database connection")
			}

			today := now(app)
			tasks, err := app.ListTasksHandler.Handle(ctx, productivityQueries.ListTasksQuery{
				UserID:   app.CurrentUserID,
				Day:      &today,
				Location: location(app),
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, tasks)
		})

	return nil
}

func registerActivityResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("pulse://activity/today").
		Name("Today's Activity").
		Description("Today's activity record, null when nothing was recorded").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			activity, err := app.ActivityService.GetActivity(ctx, app.CurrentUserID, now(app))
			if err != nil && !errors.Is(err, domain.ErrActivityNotFound) {
				return nil, err
			}
			return jsonResource(uri, activity)
		})

	srv.Resource("pulse://activity/week").
		Name("Weekly Summary").
		Description("Totals, streak and best day of the last seven days").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			summary, err := app.ActivityService.GetWeeklySummary(ctx, app.CurrentUserID, now(app))
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, summary)
		})

	srv.Resource("pulse://activity/month").
		Name("Monthly Summary").
		Description("Totals and averages of the current calendar month").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			n := now(app)
			summary, err := app.ActivityService.GetMonthlySummary(ctx, app.CurrentUserID, n.Year(), int(n.Month()))
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, summary)
		})

	srv.Resource("pulse://activity/trends").
		Name("Trends").
		Description(fmt.Sprintf("Daily points over the last %d days", domain.DefaultTrendPeriod)).
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			trends, err := app.ActivityService.GetTrends(ctx, app.CurrentUserID, domain.DefaultTrendPeriod, now(app))
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, trends)
		})

	srv.Resource("pulse://activity/context").
		Name("Productivity Context").
		Description("Plain-language digest of the last week with suggested questions").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			pc, err := app.ActivityService.GetProductivityContext(ctx, app.CurrentUserID, now(app))
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, pc)
		})

	return nil
}

func registerSystemResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("pulse://system/health").
		Name("Health").
		Description("Connectivity of the database, cache and broker").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.Health == nil {
				return jsonResource(uri, map[string]string{"status": "unknown"})
			}
			return jsonResource(uri, app.Health.Check(ctx))
		})

	return nil
}
