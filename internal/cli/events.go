package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/observability"
)

var (
	eventsType  string
	eventsSince string
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent entries from the event log",
	Long: `Show the newest entries from the event log, oldest first.

Filter by --type (e.g. task.status_changed, coins.recorded) and by --since
(e.g. 24h, 7d).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized")
		}

		filter := observability.EventFilter{Type: eventsType, Limit: eventsLimit}
		if eventsSince != "" {
			since, err := parseSinceDuration(eventsSince)
			if err != nil {
				return fmt.Errorf("parsing --since: %w", err)
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}

		for _, e := range events {
			data := ""
			if len(e.Data) > 0 {
				b, err := json.Marshal(e.Data)
				if err != nil {
					return fmt.Errorf("formatting event data: %w", err)
				}
				data = string(b)
			}
			fmt.Printf("%s  %-5s %-22s %s\n", e.Time.Local().Format(time.DateTime), e.Level, e.Type, data)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "Only show events of this type")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "Only show events newer than this (e.g. 24h, 7d)")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "Maximum number of events to show (0 for all)")
	rootCmd.AddCommand(eventsCmd)
}
