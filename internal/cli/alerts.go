package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/observability"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts and warnings",
	Long: `Evaluate alert conditions against today's progress and the event log and
display any triggered alerts.

Alerts check for overdue blocks, skip penalties, low progress in the evening,
and blocks left in progress for too long. With --notify, triggered alerts are
also sent to the configured Slack webhook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized (event log may be disabled)")
		}

		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}

		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		printAlerts(alerts)

		if alertsNotify {
			if Notifier == nil {
				return fmt.Errorf("notifier not configured: set notifications.slack.webhook_url in .focusconfig")
			}
			if err := Notifier.Notify(alerts); err != nil {
				return fmt.Errorf("sending alerts: %w", err)
			}
			fmt.Printf("Sent %d alert(s).\n", len(alerts))
		}
		return nil
	},
}

func printAlerts(alerts []observability.Alert) {
	fmt.Printf("%d active alert(s):\n\n", len(alerts))
	for _, alert := range alerts {
		severity := strings.ToUpper(string(alert.Severity))
		fmt.Printf("  [%s] %s\n", severity, alert.Message)
		fmt.Printf("         triggered at %s\n\n", alert.TriggeredAt.Format("2006-01-02 15:04"))
	}
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Also send triggered alerts to Slack")
	rootCmd.AddCommand(alertsCmd)
}
