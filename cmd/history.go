package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultis/vaultis/cdp"
	"github.com/vaultis/vaultis/config"
)

func eventDecimals(ilks *cdp.IlkTable, symbol string) uint64 {
	ilk, err := ilks.Get(symbol)
	if err != nil || ilk.IsEther {
		return 18
	}
	return uint64(ilk.Precision)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the event history of all your vaults",
	Long: `Show the event history of all your vaults, merged across collateral
types and grouped by collateral. The history comes from the vaultis
event indexer, not from the chain directly.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newCdpManager()
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		events, err := m.CombinedEventHistory()
		if err != nil {
			appUI.Error("Couldn't fetch your vault history: %s", err)
			return
		}
		if len(events) == 0 {
			appUI.Info("No vault events yet.")
			return
		}

		// one group per ilk, groups in first-seen order
		order := []string{}
		grouped := map[string][][]string{}
		for _, ev := range events {
			if _, seen := grouped[ev.Ilk]; !seen {
				order = append(order, ev.Ilk)
			}
			grouped[ev.Ilk] = append(grouped[ev.Ilk], []string{
				ev.Timestamp.Format("2006-01-02 15:04"),
				ev.Type,
				fmt.Sprintf("%f %s", ev.Amount.Float(eventDecimals(m.Ilks(), ev.Ilk)), ev.Currency),
				ev.TxHash,
			})
		}
		groups := [][][]string{}
		for _, ilk := range order {
			rows := grouped[ilk]
			rows[0] = append([]string{ilk}, rows[0]...)
			for i := 1; i < len(rows); i++ {
				rows[i] = append([]string{""}, rows[i]...)
			}
			groups = append(groups, rows)
		}

		appUI.Section("vault history")
		appUI.TableWithGroups([]string{"collateral", "time", "event", "amount", "tx"}, groups)
	},
}

func init() {
	historyCmd.PersistentFlags().
		StringVarP(&config.From, "from", "f", "", "Wallet to inspect. It can be an ethereum address or a hint string to look it up in the list of accounts.")
	rootCmd.AddCommand(historyCmd)
}
