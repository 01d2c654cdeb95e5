package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage quick notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quick notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Notes == nil {
			return fmt.Errorf("note manager not initialized")
		}
		notes := Notes.List()
		if len(notes) == 0 {
			fmt.Println("No notes.")
			return nil
		}
		for i, n := range notes {
			fmt.Printf("  %d. %s\n", i+1, n)
		}
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a quick note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Notes == nil {
			return fmt.Errorf("note manager not initialized")
		}
		if err := Notes.Add(strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Println("Note saved.")
		return nil
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm <text>",
	Short: "Remove a quick note by its exact text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Notes == nil {
			return fmt.Errorf("note manager not initialized")
		}
		if err := Notes.Remove(strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Println("Note removed.")
		return nil
	},
}

func init() {
	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesRmCmd)
	rootCmd.AddCommand(notesCmd)
}
