package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/felixgeelhaar/pulse/pkg/observability"
)

type addInput struct {
	Description string `json:"description" jsonschema:"required"`
	Completed   bool   `json:"completed,omitempty"`
}

type doneInput struct {
	Prefix string `json:"prefix,omitempty"`
}

type exportInput struct {
	Format string `json:"format,omitempty"`
	Days   int    `json:"days,omitempty"`
}

type doneResult struct {
	Completed *queries.TaskDTO  `json:"completed,omitempty"`
	Matches   []queries.TaskDTO `json:"matches,omitempty"`
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check database, cache and broker connectivity").
		Handler(func(ctx context.Context, input struct{}) (*observability.OverallHealth, error) {
			if app == nil {
				return nil, errors.New("app not initialized")
			}
			if app.Health == nil {
				return &observability.OverallHealth{Status: observability.HealthStatusHealthy}, nil
			}
			report := app.Health.Check(ctx)
			return &report, nil
		})

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	srv.Tool("cli.add").
		Description("Quick add a task with natural language, e.g. \"Write report at 9 for 2h #work !!\"").
		Handler(func(ctx context.Context, input addInput) (*cli.QuickAddResult, error) {
			if app == nil || app.CreateTaskHandler == nil {
				return nil, errors.New("quick add requires database connection")
			}
			if strings.TrimSpace(input.Description) == "" {
				return nil, errors.New("description is required")
			}
			return cli.QuickAdd(ctx, app, input.Description, input.Completed)
		})

	srv.Tool("cli.done").
		Description("Complete a task by ID prefix, or list completable tasks when no prefix is given").
		Handler(func(ctx context.Context, input doneInput) (*doneResult, error) {
			if app == nil || app.ListTasksHandler == nil || app.CompleteTaskHandler == nil {
				return nil, errors.New("done requires database connection")
			}
			return completeByPrefix(ctx, app, strings.ToLower(strings.TrimSpace(input.Prefix)))
		})

	srv.Tool("cli.export").
		Description("Export the last N days as ics (tasks), csv or json (activity records)").
		Handler(func(ctx context.Context, input exportInput) (map[string]any, error) {
			if app == nil || app.ActivityService == nil {
				return nil, errActivityUnavailable
			}
			format := input.Format
			if format == "" {
				format = "json"
			}
			days := input.Days
			if days == 0 {
				days = 30
			}

			var sb strings.Builder
			n, err := cli.Export(ctx, &sb, app, format, days)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"format":  format,
				"records": n,
				"content": sb.String(),
			}, nil
		})

	return nil
}

func completeByPrefix(ctx context.Context, app *cli.App, prefix string) (*doneResult, error) {
	open, err := cli.OpenTasks(ctx, app)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		return &doneResult{Matches: open}, nil
	}

	var matches []queries.TaskDTO
	for _, t := range open {
		if strings.HasPrefix(t.ID.String(), prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.New("no open task matches the prefix")
	case 1:
	default:
		return &doneResult{Matches: matches}, nil
	}

	task := matches[0]
	if err := app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
		TaskID: task.ID,
		UserID: app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	if err := app.SyncActivity(ctx); err != nil {
		return nil, err
	}
	task.Status = "completed"
	return &doneResult{Completed: &task}, nil
}
