package cli

import (
	"context"

	activityApp "github.com/felixgeelhaar/pulse/internal/activity/application"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/felixgeelhaar/pulse/pkg/observability"
	"github.com/google/uuid"
)

// EventDrainer publishes pending task events so activity rollups catch up.
type EventDrainer func(ctx context.Context) error

// App holds the CLI application dependencies.
type App struct {
	// Task Command Handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	UpdateTaskHandler   *commands.UpdateTaskHandler
	StartTaskHandler    *commands.StartTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	CancelTaskHandler   *commands.CancelTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Task Query Handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler

	// Activity
	ActivityService *activityApp.Service

	Health *observability.HealthRegistry

	drainEvents EventDrainer

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createTaskHandler *commands.CreateTaskHandler,
	updateTaskHandler *commands.UpdateTaskHandler,
	startTaskHandler *commands.StartTaskHandler,
	completeTaskHandler *commands.CompleteTaskHandler,
	cancelTaskHandler *commands.CancelTaskHandler,
	deleteTaskHandler *commands.DeleteTaskHandler,
	listTasksHandler *queries.ListTasksHandler,
	getTaskHandler *queries.GetTaskHandler,
	activityService *activityApp.Service,
) *App {
	return &App{
		CreateTaskHandler:   createTaskHandler,
		UpdateTaskHandler:   updateTaskHandler,
		StartTaskHandler:    startTaskHandler,
		CompleteTaskHandler: completeTaskHandler,
		CancelTaskHandler:   cancelTaskHandler,
		DeleteTaskHandler:   deleteTaskHandler,
		ListTasksHandler:    listTasksHandler,
		GetTaskHandler:      getTaskHandler,
		ActivityService:     activityService,
		CurrentUserID:       uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// SetEventDrainer sets the function run after every task mutation.
func (a *App) SetEventDrainer(drain EventDrainer) {
	a.drainEvents = drain
}

// SetHealthRegistry updates the health registry.
func (a *App) SetHealthRegistry(registry *observability.HealthRegistry) {
	a.Health = registry
}

// SyncActivity publishes the events raised by the last mutation. Without a
// drainer the events are left for the worker.
func (a *App) SyncActivity(ctx context.Context) error {
	if a.drainEvents == nil {
		return nil
	}
	return a.drainEvents(ctx)
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
