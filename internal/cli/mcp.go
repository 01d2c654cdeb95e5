package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	focusmcp "github.com/valter-silva-au/focus-flow/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the focus MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the focus MCP server on stdio",
	Long: `Start the focus MCP server on stdio transport.

The server exposes Focus Flow as MCP tools that AI assistants can call:
get_today, get_coach_report, mark_task_status, list_plan, add_quick_note,
get_metrics, get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if DayViews == nil || Tracker == nil || Planner == nil || Notes == nil {
			return fmt.Errorf("services not initialized")
		}

		srv := focusmcp.NewServer(focusmcp.Services{
			DayViews:    DayViews,
			Tracker:     Tracker,
			Plan:        Planner,
			Notes:       Notes,
			Metrics:     MetricsCalc,
			Alerts:      AlertEngine,
			DefaultMode: defaultCoachMode(),
		}, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		updates, err := watchState(ctx)
		if err != nil {
			return err
		}
		if updates != nil {
			go followState(ctx, updates)
		}

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
