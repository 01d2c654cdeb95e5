package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

var (
	coinsAll   bool
	coinsLimit int
)

var coinsCmd = &cobra.Command{
	Use:   "coins",
	Short: "Show the coin bank and ledger",
	Long: `Show the coin bank and today's ledger entries, newest first.

Use --all to list the whole ledger and --limit to cap the number of entries.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if StateMgr == nil {
			return fmt.Errorf("state manager not initialized")
		}

		t := now()
		state := StateMgr.State()
		ledger := state.CoinLedger
		if !coinsAll {
			ledger = core.LedgerForDay(ledger, t)
		}

		fmt.Printf("Coin bank: %d\n", state.CoinBank)
		if !coinsAll {
			fmt.Printf("Today:     %+d\n", core.NetCoins(ledger))
		}
		fmt.Println()

		entries := newestFirst(ledger, coinsLimit)
		if len(entries) == 0 {
			fmt.Println("  No ledger entries.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("  %s  %+5d  %-10s %s\n", e.Date.Local().Format("2006-01-02 15:04"), e.Amount, e.Type, e.Label)
		}
		return nil
	},
}

// newestFirst returns up to limit entries in reverse order. A limit of zero
// or less returns every entry.
func newestFirst(ledger []models.CoinLedgerEntry, limit int) []models.CoinLedgerEntry {
	out := make([]models.CoinLedgerEntry, 0, len(ledger))
	for i := len(ledger) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, ledger[i])
	}
	return out
}

func init() {
	coinsCmd.Flags().BoolVar(&coinsAll, "all", false, "List the whole ledger instead of today's entries")
	coinsCmd.Flags().IntVar(&coinsLimit, "limit", 0, "Maximum number of entries to list (0 for all)")
	rootCmd.AddCommand(coinsCmd)
}
