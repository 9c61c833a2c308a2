package activity

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print a productivity digest for an assistant",
	Long: `Print a plain-text digest of the last seven days followed by questions
worth asking an assistant about it. Pipe it into a chat or use the MCP
server's productivity_context prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		svc := app.ActivityService
		pc, err := svc.GetProductivityContext(cmd.Context(), app.CurrentUserID, svc.Now())
		if err != nil {
			return fmt.Errorf("failed to build context: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, pc)
		}

		fmt.Fprintln(out, pc.Summary)
		if len(pc.Suggestions) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Suggested questions:")
			for _, s := range pc.Suggestions {
				fmt.Fprintf(out, "  - %s\n", s)
			}
		}
		return nil
	},
}
