package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a Focus Flow data directory",
	Long: `Initialize a data directory with a default .focusconfig and an empty
state file. Defaults to the current data directory.

Safe to run on an existing directory -- files that already exist are
skipped and not overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		basePath := BasePath
		if len(args) > 0 {
			basePath = args[0]
		}
		if basePath == "" {
			return fmt.Errorf("data directory not initialized")
		}
		absPath, err := filepath.Abs(basePath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		var created, skipped []string

		wrote, err := core.WriteDefaultConfig(absPath)
		if err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		if wrote {
			created = append(created, core.ConfigFileName)
		} else {
			skipped = append(skipped, core.ConfigFileName)
		}

		sm := storage.NewStateManager(absPath)
		if _, err := os.Stat(sm.Path()); errors.Is(err, os.ErrNotExist) {
			if err := sm.Save(); err != nil {
				return fmt.Errorf("initializing state: %w", err)
			}
			created = append(created, storage.StateFileName)
		} else if err != nil {
			return fmt.Errorf("checking state file: %w", err)
		} else {
			skipped = append(skipped, storage.StateFileName)
		}

		if len(created) > 0 {
			fmt.Println("Created:")
			for _, p := range created {
				fmt.Printf("  %s\n", p)
			}
		}
		if len(skipped) > 0 {
			fmt.Println("Skipped (already exist):")
			for _, p := range skipped {
				fmt.Printf("  %s\n", p)
			}
		}

		fmt.Printf("\nFocus Flow initialized at %s\n", absPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
