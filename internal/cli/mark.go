package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

var markDate string

var markCmd = &cobra.Command{
	Use:   "mark <task-id> <status>",
	Short: "Set the status of a planned block",
	Long: `Set the status of a planned block for today, or for --date.

Valid statuses: pending, in_progress, completed, skipped.

Completing a block credits its coin reward and skipping it debits the skip
penalty. Moving a block out of completed or skipped reverses that movement.
Setting the status a block already has changes nothing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("status tracker not initialized")
		}

		taskID := args[0]
		status := models.TaskStatus(args[1])
		if !status.Valid() {
			return fmt.Errorf("invalid status %q: must be one of pending, in_progress, completed, skipped", args[1])
		}

		date := markDate
		if date == "" {
			date = core.DateKey(now())
		}

		err := Tracker.MarkTaskStatus(commandContext(cmd), date, core.StatusChange{TaskID: taskID, Status: status})
		if errors.Is(err, core.ErrNotScheduled) {
			return fmt.Errorf("task %s is not scheduled on %s", taskID, date)
		}
		if errors.Is(err, core.ErrFutureDate) {
			return fmt.Errorf("%s is in the future", date)
		}
		if errors.Is(err, core.ErrTaskNotFound) {
			return fmt.Errorf("task %s is not in the weekly plan", taskID)
		}
		if err != nil {
			return fmt.Errorf("updating task status: %w", err)
		}

		fmt.Printf("Task %s marked %s on %s\n", taskID, status, date)
		if StateMgr != nil {
			fmt.Printf("Coin bank: %d\n", StateMgr.State().CoinBank)
		}
		return nil
	},
}

func init() {
	markCmd.Flags().StringVar(&markDate, "date", "", "Day to update as YYYY-MM-DD (defaults to today)")
	rootCmd.AddCommand(markCmd)
}
