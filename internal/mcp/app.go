package mcp

import (
	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/internal/app"
	"github.com/google/uuid"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(
		container.CreateTaskHandler,
		container.UpdateTaskHandler,
		container.StartTaskHandler,
		container.CompleteTaskHandler,
		container.CancelTaskHandler,
		container.DeleteTaskHandler,
		container.ListTasksHandler,
		container.GetTaskHandler,
		container.ActivityService,
	)

	cliApp.SetCurrentUserID(currentUser)
	cliApp.SetHealthRegistry(container.Health)
	cliApp.SetEventDrainer(container.DrainOutbox)

	return cliApp
}
