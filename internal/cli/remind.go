package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	remindLead   int
	remindNotify bool
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "List blocks that start soon",
	Long: `List pending blocks starting within the reminder lead time
(notifications.lead_minutes, or --lead).

With --notify the reminders are sent to Slack, but only when notifications
are turned on in settings. Each reminder is sent once; reminders that fail
to send are queued in .focus_outbox.json and retried on the next run, for up
to an hour. Run it
from cron every few minutes to get "starting soon" messages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized (event log may be disabled)")
		}

		lead := remindLead
		if lead <= 0 && Config != nil {
			lead = Config.Notifications.LeadMinutes
		}
		if lead <= 0 {
			return fmt.Errorf("reminder lead time must be positive")
		}

		reminders := AlertEngine.Upcoming(time.Duration(lead) * time.Minute)
		if len(reminders) == 0 {
			fmt.Printf("Nothing starts in the next %d minute(s).\n", lead)
			return nil
		}
		for _, r := range reminders {
			fmt.Printf("  %s\n", r.Message)
		}

		if !remindNotify {
			return nil
		}
		if Settings == nil || !Settings.Settings().NotificationsEnabled {
			fmt.Println("Notifications are off; nothing sent.")
			return nil
		}
		if Notifier == nil {
			return fmt.Errorf("notifier not configured: set notifications.slack.webhook_url in .focusconfig")
		}
		if Outbox == nil {
			if err := Notifier.Notify(reminders); err != nil {
				return fmt.Errorf("sending reminders: %w", err)
			}
			fmt.Printf("Sent %d reminder(s).\n", len(reminders))
			return nil
		}

		res, err := Outbox.Deliver(Notifier, reminders)
		if res != nil && res.Expired > 0 {
			fmt.Printf("Dropped %d stale reminder(s).\n", res.Expired)
		}
		if err != nil {
			if res != nil && res.Queued > 0 {
				fmt.Printf("Queued %d reminder(s) for the next run.\n", res.Queued)
			}
			return fmt.Errorf("sending reminders: %w", err)
		}
		fmt.Printf("Sent %d reminder(s)", res.Sent)
		if res.Skipped > 0 {
			fmt.Printf(", %d already sent", res.Skipped)
		}
		fmt.Println(".")
		return nil
	},
}

func init() {
	remindCmd.Flags().IntVar(&remindLead, "lead", 0, "Lead time in minutes (defaults to notifications.lead_minutes)")
	remindCmd.Flags().BoolVar(&remindNotify, "notify", false, "Send reminders to Slack when notifications are on")
	rootCmd.AddCommand(remindCmd)
}
