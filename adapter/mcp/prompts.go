package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common pulse workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Prompt("daily_review").
		Description("Review today's tasks and activity record, then log anything that is missing.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Daily Review", `Help me close out my day. Please:

1. Read today's tasks from the pulse://tasks/today resource
2. Read today's activity record from pulse://activity/today

Then:
- Ask me which open tasks I actually finished and mark them with task.complete
- Ask whether I worked on anything that is not logged yet and record it with cli.add
- Explain how today's productivity score and intensity came about
- Offer to save a short reflection with activity.set_notes`), nil
		})

	srv.Prompt("weekly_review").
		Description("Assess the last seven days and plan adjustments for the next week.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly Review Session", `Let's conduct a weekly review. Please:

1. Read the summary from pulse://activity/week
2. Read the 30 day trend from pulse://activity/trends
3. List the week's records with the activity.list tool

Help me analyze:

**Accomplishments:**
- How many tasks did I complete and on which days?
- What was my best day and why did it score well?

**Patterns:**
- Which categories took most of my time?
- Are high difficulty or low focus days dragging my score down?
- Is my streak intact?

**Planning:**
- What should I change next week?
- Which days look overloaded compared to my average intensity?

Please provide specific recommendations with actionable next steps.`), nil
		})

	srv.Prompt("productivity_context").
		Description("Start a coaching conversation grounded in the user's recent activity.").
		Argument("question", "What you want to talk about (optional)", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			var sb strings.Builder
			sb.WriteString("You are coaching me on my productivity.\n\n")

			if app != nil && app.ActivityService != nil {
				pc, err := app.ActivityService.GetProductivityContext(ctx, app.CurrentUserID, now(app))
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(&sb, "My recent activity (%s to %s): %s\n", pc.StartDate, pc.EndDate, pc.Summary)
				if len(pc.Suggestions) > 0 {
					sb.WriteString("\nQuestions worth exploring:\n")
					for _, s := range pc.Suggestions {
						fmt.Fprintf(&sb, "- %s\n", s)
					}
				}
			} else {
				sb.WriteString("Read pulse://activity/context before answering.\n")
			}

			if q := strings.TrimSpace(args["question"]); q != "" {
				fmt.Fprintf(&sb, "\nMy question: %s\n", q)
			} else {
				sb.WriteString("\nStart by asking which of these I'd like to dig into.\n")
			}

			return userPrompt("Productivity Context", sb.String()), nil
		})

	srv.Prompt("task_breakdown").
		Description("Break down a complex task into smaller tasks with time estimates.").
		Argument("task_description", "Description of the task to break down", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			taskDesc := args["task_description"]
			if taskDesc == "" {
				taskDesc = "[Please describe the task you want to break down]"
			}

			return userPrompt("Task Breakdown Assistant", fmt.Sprintf(`Help me break down this task into smaller, actionable tasks:

**Task:** %s

Please:
1. Break it into 3-7 tasks that can each be completed in one sitting
2. For each one, suggest:
   - A clear, action-oriented title
   - Estimated duration in minutes (15, 30, 45, 60, 90, or 120)
   - Priority (high, medium, low), category and difficulty from 1 to 5
3. Suggest an order and start times that fit into my day

Once I approve the breakdown, use the task.create tool to record each task.`, taskDesc)), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
