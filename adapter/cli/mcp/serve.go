package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/pulse/internal/app"
	mcpinternal "github.com/felixgeelhaar/pulse/internal/mcp"
	"github.com/felixgeelhaar/pulse/pkg/config"
	"github.com/felixgeelhaar/pulse/pkg/observability"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start an MCP server over HTTP exposing task, activity and summary tools.

Set MCP_AUTH_TOKEN to require a bearer token.

Examples:
  pulse mcp serve
  pulse mcp serve --addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		logger := observability.LoggerFromEnv()

		var container *app.Container
		if cfg.IsLocalMode() {
			container, err = app.NewLocalContainer(ctx, cfg, logger)
		} else {
			container, err = app.NewContainer(ctx, cfg, logger)
		}
		if err != nil {
			return err
		}
		defer container.Close()

		cliApp := mcpinternal.NewCLIApp(container, cfg.CurrentUserID())
		err = mcpinternal.Serve(ctx, cfg, cliApp, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default MCP_ADDR)")
}
