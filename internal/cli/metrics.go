package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	metricsJSON  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display habit and coin metrics",
	Long: `Display aggregated metrics derived from the event log.

Metrics include status changes, completed and skipped blocks, coins earned
and lost, plan edits and quick notes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (event log may be disabled)")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Metrics (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Printf("  %-24s %d\n", "Events recorded:", metrics.EventCount)
		fmt.Printf("  %-24s %d\n", "Status changes:", metrics.StatusChanges)
		fmt.Printf("  %-24s %d\n", "Blocks completed:", metrics.TasksCompleted)
		fmt.Printf("  %-24s %d\n", "Blocks skipped:", metrics.TasksSkipped)
		fmt.Printf("  %-24s %.0f%%\n", "Completion rate:", metrics.CompletionRate()*100)
		fmt.Printf("  %-24s %d\n", "Coins earned:", metrics.CoinsEarned)
		fmt.Printf("  %-24s %d\n", "Coins lost:", metrics.CoinsLost)
		fmt.Printf("  %-24s %+d\n", "Net coins:", metrics.NetCoins)
		fmt.Printf("  %-24s %d\n", "Plan edits:", metrics.PlanEdits)
		fmt.Printf("  %-24s %d\n", "Notes added:", metrics.NotesAdded)

		if len(metrics.TasksByStatus) > 0 {
			fmt.Println("\n  Status transitions:")
			statuses := make([]string, 0, len(metrics.TasksByStatus))
			for s := range metrics.TasksByStatus {
				statuses = append(statuses, s)
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				fmt.Printf("    %-20s %d\n", status+":", metrics.TasksByStatus[status])
			}
		}

		if metrics.OldestEvent != nil {
			fmt.Printf("\n  %-24s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Printf("  %-24s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	t := now().UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return t.AddDate(0, 0, -7), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return t.AddDate(0, 0, -days), nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid hour duration %q", s)
		}
		return t.Add(-time.Duration(hours) * time.Hour), nil
	}

	return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 30d, 24h)", s)
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
