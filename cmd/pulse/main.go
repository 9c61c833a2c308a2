package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/pulse/adapter/cli"
	"github.com/felixgeelhaar/pulse/adapter/cli/activity"
	"github.com/felixgeelhaar/pulse/adapter/cli/mcp"
	"github.com/felixgeelhaar/pulse/adapter/cli/task"
	"github.com/felixgeelhaar/pulse/internal/app"
	"github.com/felixgeelhaar/pulse/pkg/config"
	"github.com/felixgeelhaar/pulse/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cli.SetLogger(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var container *app.Container
	if cfg.IsLocalMode() {
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		container, err = app.NewContainer(ctx, cfg, logger)
	}

	var cliApp *cli.App
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		cliApp = cli.NewApp(
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
		cliApp.SetCurrentUserID(cfg.CurrentUserID())
		cliApp.SetHealthRegistry(container.Health)
		cliApp.SetEventDrainer(container.DrainOutbox)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(task.Cmd)
	cli.AddCommand(activity.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute()
}
