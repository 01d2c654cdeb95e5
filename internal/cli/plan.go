package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the recurring weekly plan",
	Long: `Manage the recurring weekly plan. Each block repeats on its weekday at
the same start time.

Adding, editing and removing blocks each use one of the week's plan edits
(planner.weekly_edit_limit). The counter resets every ISO week.`,
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the weekly plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("plan manager not initialized")
		}

		var weekday *int
		if day, _ := cmd.Flags().GetString("day"); day != "" {
			d, err := parseWeekday(day)
			if err != nil {
				return err
			}
			weekday = &d
		}

		tasks := Planner.ListTasks(weekday)
		if len(tasks) == 0 {
			fmt.Println("No planned blocks.")
			return nil
		}

		current := -1
		for _, t := range tasks {
			if t.Weekday != current {
				current = t.Weekday
				fmt.Printf("%s\n", weekdayNames[t.Weekday])
			}
			fmt.Printf("  %02d:%02d  %3dm  %-28s %-7s %-10s +%-3d %s\n",
				t.Hour, t.Minute, t.DurationMinutes, t.Title, t.Difficulty, t.Category, t.CoinReward, t.ID)
		}
		fmt.Printf("\n%d block(s), %d edit(s) left this week\n", len(tasks), Planner.EditsLeft())
		return nil
	},
}

var planAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a block to the weekly plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("plan manager not initialized")
		}

		dayStr, _ := cmd.Flags().GetString("day")
		weekday, err := parseWeekday(dayStr)
		if err != nil {
			return err
		}
		at, _ := cmd.Flags().GetString("at")
		hour, minute, err := parseClock(at)
		if err != nil {
			return err
		}
		duration, _ := cmd.Flags().GetInt("duration")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		category, _ := cmd.Flags().GetString("category")
		reward, _ := cmd.Flags().GetInt("reward")
		description, _ := cmd.Flags().GetString("description")

		task, err := Planner.AddTask(models.WeeklyTask{
			Weekday:         weekday,
			Hour:            hour,
			Minute:          minute,
			DurationMinutes: duration,
			Title:           args[0],
			Description:     description,
			Difficulty:      models.Difficulty(difficulty),
			Category:        category,
			CoinReward:      reward,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added %q on %s at %02d:%02d (%s)\n", task.Title, weekdayNames[task.Weekday], task.Hour, task.Minute, task.ID)
		fmt.Printf("%d edit(s) left this week\n", Planner.EditsLeft())
		return nil
	},
}

var planEditCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Change a block in the weekly plan",
	Long:  `Change a block in the weekly plan. Only the flags given are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("plan manager not initialized")
		}

		update, err := planUpdateFromFlags(cmd)
		if err != nil {
			return err
		}
		if update == (core.PlanTaskUpdate{}) {
			return fmt.Errorf("nothing to change: pass at least one flag")
		}

		task, err := Planner.UpdateTask(args[0], update)
		if err != nil {
			return err
		}

		fmt.Printf("Updated %q on %s at %02d:%02d\n", task.Title, weekdayNames[task.Weekday], task.Hour, task.Minute)
		fmt.Printf("%d edit(s) left this week\n", Planner.EditsLeft())
		return nil
	},
}

var planRmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Remove a block from the weekly plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		if err := Planner.RemoveTask(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		fmt.Printf("%d edit(s) left this week\n", Planner.EditsLeft())
		return nil
	},
}

var planEditsCmd = &cobra.Command{
	Use:   "edits",
	Short: "Show the plan edits left this week",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("plan manager not initialized")
		}
		fmt.Printf("%d edit(s) left in %s\n", Planner.EditsLeft(), core.WeekKey(now()))
		return nil
	},
}

// planUpdateFromFlags collects the flags that were set on cmd.
func planUpdateFromFlags(cmd *cobra.Command) (core.PlanTaskUpdate, error) {
	var u core.PlanTaskUpdate
	flags := cmd.Flags()

	if flags.Changed("day") {
		s, _ := flags.GetString("day")
		d, err := parseWeekday(s)
		if err != nil {
			return u, err
		}
		u.Weekday = &d
	}
	if flags.Changed("at") {
		s, _ := flags.GetString("at")
		h, m, err := parseClock(s)
		if err != nil {
			return u, err
		}
		u.Hour, u.Minute = &h, &m
	}
	if flags.Changed("duration") {
		v, _ := flags.GetInt("duration")
		u.DurationMinutes = &v
	}
	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		u.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		u.Description = &v
	}
	if flags.Changed("difficulty") {
		v, _ := flags.GetString("difficulty")
		d := models.Difficulty(v)
		u.Difficulty = &d
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		u.Category = &v
	}
	if flags.Changed("reward") {
		v, _ := flags.GetInt("reward")
		u.CoinReward = &v
	}
	return u, nil
}

// parseWeekday accepts 0 (Monday) to 6 (Sunday) or an English day name,
// full or abbreviated to three letters.
func parseWeekday(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("invalid weekday %d: must be between 0 (Monday) and 6 (Sunday)", n)
		}
		return n, nil
	}
	for i, name := range weekdayNames {
		full := strings.ToLower(name)
		if s == full || s == full[:3] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q: use 0-6 or a day name", s)
}

// parseClock parses a 24-hour "HH:MM" start time.
func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}

func addPlanTaskFlags(cmd *cobra.Command) {
	cmd.Flags().String("day", "", "Weekday, 0 (Monday) to 6 (Sunday) or a day name")
	cmd.Flags().String("at", "", "Start time as HH:MM")
	cmd.Flags().Int("duration", 30, "Duration in minutes")
	cmd.Flags().String("difficulty", string(models.DifficultyMedium), "Difficulty: easy, medium, hard or boss")
	cmd.Flags().String("category", models.DefaultCategory, "Category label")
	cmd.Flags().Int("reward", 0, "Coin reward (defaults to the difficulty's reward)")
	cmd.Flags().String("description", "", "Optional description")
}

func init() {
	planListCmd.Flags().String("day", "", "Only list one weekday (0-6 or a day name)")

	addPlanTaskFlags(planAddCmd)
	_ = planAddCmd.MarkFlagRequired("day")
	_ = planAddCmd.MarkFlagRequired("at")

	addPlanTaskFlags(planEditCmd)
	planEditCmd.Flags().String("title", "", "New title")

	planCmd.AddCommand(planListCmd, planAddCmd, planEditCmd, planRmCmd, planEditsCmd)
	rootCmd.AddCommand(planCmd)
}
