package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("settings manager not initialized")
		}
		s := Settings.Settings()

		fmt.Println("Themes:")
		for _, th := range core.Themes() {
			marker := " "
			if th.ID == s.Theme {
				marker = "*"
			}
			fmt.Printf("  %s %-9s %-15s %s\n", marker, th.ID, th.Label, th.Description)
		}
		fmt.Println()
		fmt.Printf("  %-16s %s\n", "Notifications:", onOff(s.NotificationsEnabled))
		fmt.Printf("  %-16s %s\n", "Widget pinned:", onOff(s.WidgetPinned))
		if Planner != nil {
			fmt.Printf("  %-16s %d\n", "Plan edits left:", Planner.EditsLeft())
		}
		if BasePath != "" {
			fmt.Printf("  %-16s %s\n", "Data directory:", BasePath)
		}
		return nil
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme <id>",
	Short: "Activate a theme: ocean, sunset, aurora or midnight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("settings manager not initialized")
		}
		msg, err := Settings.SetTheme(models.ThemeID(strings.ToLower(args[0])))
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var settingsNotificationsCmd = &cobra.Command{
	Use:   "notifications <on|off>",
	Short: "Turn reminders on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("settings manager not initialized")
		}
		enabled, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		res, err := Settings.SetNotifications(enabled)
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("%s", res.Reason)
		}
		fmt.Printf("Notifications %s.\n", onOff(enabled))
		return nil
	},
}

var settingsWidgetPinCmd = &cobra.Command{
	Use:   "widget-pin <on|off>",
	Short: "Pin or unpin the widget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("settings manager not initialized")
		}
		pinned, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		if err := Settings.SetWidgetPinned(pinned); err != nil {
			return err
		}
		fmt.Printf("Widget pin %s.\n", onOff(pinned))
		return nil
	},
}

var settingsResetWeekCmd = &cobra.Command{
	Use:   "reset-week",
	Short: "Restore this week's plan edit allowance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("settings manager not initialized")
		}
		if err := Settings.ResetWeekMeta(); err != nil {
			return err
		}
		fmt.Println("Weekly plan edit limit reset.")
		return nil
	},
}

var settingsResetAllCmd = &cobra.Command{
	Use:   "reset-all",
	Short: "Delete the plan, logs, coins and notes",
	Long: `Replace all stored data with the first-launch defaults. The weekly plan,
daily logs, coin ledger, quick notes and settings are all lost.

Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("settings manager not initialized")
		}
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to reset all data without --yes")
		}
		if err := Settings.ResetAllData(); err != nil {
			return err
		}
		fmt.Println("All data reset.")
		return nil
	},
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q: use on or off", s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	settingsResetAllCmd.Flags().Bool("yes", false, "Confirm the reset")
	settingsCmd.AddCommand(settingsShowCmd, settingsThemeCmd, settingsNotificationsCmd,
		settingsWidgetPinCmd, settingsResetWeekCmd, settingsResetAllCmd)
	rootCmd.AddCommand(settingsCmd)
}
