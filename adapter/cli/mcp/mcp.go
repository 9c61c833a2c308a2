package mcp

import "github.com/spf13/cobra"

// Cmd is the MCP command group.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve pulse tools, resources and prompts over MCP",
}

func init() {
	Cmd.AddCommand(serveCmd)
}
