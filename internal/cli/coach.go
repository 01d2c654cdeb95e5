package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
)

var (
	coachMode        string
	coachJSON        bool
	coachSaveSummary bool
	coachCapture     int
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Show the coach report for today",
	Long: `Build the coach report for today in one of three modes:

  momentum  push progress and start the next block strongly
  balance   watch energy and keep the rhythm
  reset     clear the field for a fresh start

The report has a headline, a summary, and up to four suggested actions.
Use --save-summary to keep the summary as a quick note, or --capture N to
keep action N.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if DayViews == nil {
			return fmt.Errorf("day view builder not initialized")
		}

		mode := defaultCoachMode()
		if coachMode != "" {
			m, err := core.ParseCoachMode(coachMode)
			if err != nil {
				return err
			}
			mode = m
		}

		report := DayViews.Build(now()).Report(mode)

		if coachSaveSummary || coachCapture != 0 {
			if Notes == nil {
				return fmt.Errorf("note manager not initialized")
			}
		}
		if coachCapture != 0 && (coachCapture < 1 || coachCapture > len(report.Actions)) {
			return fmt.Errorf("--capture must be between 1 and %d", len(report.Actions))
		}

		if coachJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting report as JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			fmt.Print(formatCoachReport(report))
		}

		if coachSaveSummary {
			note, err := Notes.CaptureSummary(report)
			if err != nil {
				return fmt.Errorf("saving summary: %w", err)
			}
			fmt.Printf("\nSaved note: %s\n", note)
		}
		if coachCapture != 0 {
			note, err := Notes.CaptureAction(report.Actions[coachCapture-1])
			if err != nil {
				return fmt.Errorf("saving action: %w", err)
			}
			fmt.Printf("\nSaved note: %s\n", note)
		}
		return nil
	},
}

func formatCoachReport(report core.CoachReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (%s)\n\n", report.Headline, report.Mode)
	fmt.Fprintf(&b, "  %s\n\n", report.Summary)
	for i, a := range report.Actions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, a)
	}
	return b.String()
}

func init() {
	coachCmd.Flags().StringVar(&coachMode, "mode", "", "Coach mode: momentum, balance or reset (defaults to coach.default_mode)")
	coachCmd.Flags().BoolVar(&coachJSON, "json", false, "Output the report as JSON")
	coachCmd.Flags().BoolVar(&coachSaveSummary, "save-summary", false, "Save the report summary as a quick note")
	coachCmd.Flags().IntVar(&coachCapture, "capture", 0, "Save action N of the report as a quick note")
	rootCmd.AddCommand(coachCmd)
}
