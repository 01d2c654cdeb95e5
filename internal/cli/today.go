package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
)

var todayJSON bool

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's planned blocks and progress",
	Long: `Show the blocks planned for today with their status, the day's progress
counters, the next block and the coach message.

Blocks are marked [now] while their window is open, [next] when still ahead,
and [late] when their window has passed without a result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if DayViews == nil {
			return fmt.Errorf("day view builder not initialized")
		}

		view := DayViews.Build(now())
		if todayJSON {
			data, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting today as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Print(formatToday(view))
		return nil
	},
}

// formatToday renders the day view as plain text.
func formatToday(view core.DayView) string {
	var b strings.Builder
	today := view.Today

	fmt.Fprintf(&b, "Today %s\n\n", today.Date)
	if today.Total == 0 {
		b.WriteString("  Nothing planned for today.\n")
	}
	for _, t := range today.Tasks {
		fmt.Fprintf(&b, "  %s-%s  %-6s %-28s %-11s +%d\n",
			t.Start.Format("15:04"), t.End.Format("15:04"), taskMarker(t), t.Title, t.DisplayStatus(), t.Reward)
	}

	fmt.Fprintf(&b, "\n  Progress:  %d%% (%d/%d done, %d skipped, %d overdue)\n",
		today.CompletionPercent(), today.Completed, today.Total, today.Skipped, today.Overdue)
	if today.NextTask != nil {
		fmt.Fprintf(&b, "  Next:      %s at %s (%s)\n", today.NextTask.Title, today.NextTask.Start.Format("15:04"), today.NextTask.ID)
	}
	fmt.Fprintf(&b, "  Coins:     %d\n", view.CoinBank)
	fmt.Fprintf(&b, "\n  %s\n", view.Message)
	return b.String()
}

func taskMarker(t core.TodayTaskView) string {
	switch {
	case t.IsCurrent:
		return "[now]"
	case t.IsUpcoming:
		return "[next]"
	case t.IsOverdue:
		return "[late]"
	default:
		return ""
	}
}

func init() {
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "Output the day view as JSON")
	rootCmd.AddCommand(todayCmd)
}
