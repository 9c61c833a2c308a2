package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/google/uuid"
)

type taskCreateInput struct {
	Title       string   `json:"title" jsonschema:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Difficulty  int      `json:"difficulty,omitempty"`
	FocusLevel  int      `json:"focus_level,omitempty"`
	StartTime   string   `json:"start_time" jsonschema:"required"`
	EndTime     string   `json:"end_time,omitempty"`
	Duration    int      `json:"duration,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Completed   bool     `json:"completed,omitempty"`
}

type taskListInput struct {
	Day      string `json:"day,omitempty"`
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type taskUpdateInput struct {
	TaskID      string   `json:"task_id" jsonschema:"required"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	Difficulty  *int     `json:"difficulty,omitempty"`
	FocusLevel  *int     `json:"focus_level,omitempty"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("task.create").
		Description("Record a task with its time span and ratings; the day's activity is recomputed").
		Handler(func(ctx context.Context, input taskCreateInput) (*commands.CreateTaskResult, error) {
			if app == nil || app.CreateTaskHandler == nil {
				return nil, errors.New("task creation requires database connection")
			}
			return createTask(ctx, app, input)
		})

	srv.Tool("task.list").
		Description("List tasks with filters").
		Handler(func(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
			if app == nil || app.ListTasksHandler == nil {
				return nil, errors.New("task listing requires database connection")
			}

			query := queries.ListTasksQuery{
				UserID:   app.CurrentUserID,
				Location: location(app),
				Status:   input.Status,
				Category: input.Category,
				Priority: input.Priority,
				Limit:    input.Limit,
			}
			if input.Day != "" {
				day, err := parseDay(app, input.Day)
				if err != nil {
					return nil, err
				}
				query.Day = &day
			}

			return app.ListTasksHandler.Handle(ctx, query)
		})

	srv.Tool("task.get").
		Description("Get a task by ID").
		Handler(func(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
			if app == nil || app.GetTaskHandler == nil {
				return nil, errors.New("task lookup requires database connection")
			}
			taskID, err := parseUUID(input.TaskID)
			if err != nil {
				return nil, err
			}
			return app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: taskID, UserID: app.CurrentUserID})
		})

	srv.Tool("task.update").
		Description("Update a task; moving it to another day recomputes both days").
		Handler(func(ctx context.Context, input taskUpdateInput) (map[string]any, error) {
			if app == nil || app.UpdateTaskHandler == nil {
				return nil, errors.New("task update requires database connection")
			}
			taskID, err := parseUUID(input.TaskID)
			if err != nil {
				return nil, err
			}
			start, err := parseOptionalDateTime(app, input.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := parseOptionalDateTime(app, input.EndTime)
			if err != nil {
				return nil, err
			}

			if err := app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{
				TaskID:      taskID,
				UserID:      app.CurrentUserID,
				Title:       input.Title,
				Description: input.Description,
				Category:    input.Category,
				Priority:    input.Priority,
				Difficulty:  input.Difficulty,
				FocusLevel:  input.FocusLevel,
				StartTime:   start,
				EndTime:     end,
				Tags:        input.Tags,
				Notes:       input.Notes,
			}); err != nil {
				return nil, err
			}
			if err := app.SyncActivity(ctx); err != nil {
				return nil, err
			}
			return map[string]any{"task_id": taskID, "updated": true}, nil
		})

	transitions := []struct {
		name   string
		desc   string
		result string
		run    func(context.Context, *cli.App, commandIDs) error
	}{
		{"task.start", "Mark a task as in progress", "started", func(ctx context.Context, a *cli.App, ids commandIDs) error {
			if a.StartTaskHandler == nil {
				return errors.New("task start requires database connection")
			}
			return a.StartTaskHandler.Handle(ctx, commands.StartTaskCommand{TaskID: ids.task, UserID: ids.user})
		}},
		{"task.complete", "Mark a task as complete", "completed", func(ctx context.Context, a *cli.App, ids commandIDs) error {
			if a.CompleteTaskHandler == nil {
				return errors.New("task completion requires database connection")
			}
			return a.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{TaskID: ids.task, UserID: ids.user})
		}},
		{"task.cancel", "Cancel a task", "cancelled", func(ctx context.Context, a *cli.App, ids commandIDs) error {
			if a.CancelTaskHandler == nil {
				return errors.New("task cancel requires database connection")
			}
			return a.CancelTaskHandler.Handle(ctx, commands.CancelTaskCommand{TaskID: ids.task, UserID: ids.user})
		}},
		{"task.delete", "Delete a task; an emptied day loses its activity record", "deleted", func(ctx context.Context, a *cli.App, ids commandIDs) error {
			if a.DeleteTaskHandler == nil {
				return errors.New("task delete requires database connection")
			}
			return a.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: ids.task, UserID: ids.user})
		}},
	}

	for _, tr := range transitions {
		srv.Tool(tr.name).
			Description(tr.desc).
			Handler(func(ctx context.Context, input taskIDInput) (map[string]any, error) {
				if app == nil {
					return nil, errors.New("app not initialized")
				}
				taskID, err := parseUUID(input.TaskID)
				if err != nil {
					return nil, err
				}
				if err := tr.run(ctx, app, commandIDs{task: taskID, user: app.CurrentUserID}); err != nil {
					return nil, err
				}
				if err := app.SyncActivity(ctx); err != nil {
					return nil, err
				}
				return map[string]any{"task_id": taskID, tr.result: true}, nil
			})
	}

	return nil
}

type commandIDs struct {
	task, user uuid.UUID
}

func createTask(ctx context.Context, app *cli.App, input taskCreateInput) (*commands.CreateTaskResult, error) {
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	start, err := parseDateTime(app, input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}

	end := start.Add(time.Hour)
	switch {
	case input.EndTime != "":
		if end, err = parseDateTime(app, input.EndTime); err != nil {
			return nil, fmt.Errorf("end_time: %w", err)
		}
	case input.Duration > 0:
		end = start.Add(time.Duration(input.Duration) * time.Minute)
	}

	result, err := app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:      app.CurrentUserID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Difficulty:  input.Difficulty,
		FocusLevel:  input.FocusLevel,
		StartTime:   start,
		EndTime:     end,
		Tags:        input.Tags,
		Notes:       input.Notes,
		Completed:   input.Completed,
	})
	if err != nil {
		return nil, err
	}
	if err := app.SyncActivity(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
