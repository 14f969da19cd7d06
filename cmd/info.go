package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultis/vaultis/cdp"
	"github.com/vaultis/vaultis/config"
)

type vaultSummary struct {
	CdpID uint64  `json:"cdp_id"`
	Ilk   string  `json:"ilk"`
	Debt  float64 `json:"debt_dai"`
}

type accountSummary struct {
	Wallet    string         `json:"wallet"`
	Proxy     string         `json:"proxy,omitempty"`
	Vaults    []vaultSummary `json:"vaults"`
	TotalDebt float64        `json:"total_debt_dai"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show your vaults and combined debt",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newCdpManager()
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		summary := accountSummary{
			Wallet: m.Owner().Hex(),
			Vaults: []vaultSummary{},
		}

		appUI.Section("vaults")
		appUI.Info("Wallet: %s", summary.Wallet)
		proxy, found, err := m.CurrentProxy()
		if err != nil {
			appUI.Error("Couldn't look up your proxy: %s", err)
			return
		}
		if !found {
			appUI.Info("You don't have a DS proxy yet, so no vaults either. Open one with:\n> vaultis open ETH-A")
			writeJSONOutput(summary)
			return
		}
		summary.Proxy = proxy.Hex()
		appUI.Info("Proxy:  %s", summary.Proxy)

		positions, err := m.Positions()
		if err != nil {
			appUI.Error("Couldn't list your vaults: %s", err)
			return
		}
		rows := [][]string{}
		for _, p := range positions {
			debt, err := m.DebtOf(p.ID)
			if err != nil {
				appUI.Error("%s", err)
				return
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", p.ID),
				p.Ilk,
				fmt.Sprintf("%f %s", debt.Float(18), debt.Currency),
			})
			summary.Vaults = append(summary.Vaults, vaultSummary{
				CdpID: p.ID,
				Ilk:   p.Ilk,
				Debt:  debt.Float(18),
			})
		}
		if len(rows) == 0 {
			appUI.Info("Your proxy doesn't own any vault yet.")
		} else {
			appUI.Table([]string{"vault", "collateral", "debt"}, rows)
		}

		total, err := m.CombinedDebtValue()
		if err != nil {
			appUI.Error("Couldn't sum your debt: %s", err)
			return
		}
		summary.TotalDebt = total.Float(18)
		appUI.Info("Combined debt: %f %s", summary.TotalDebt, cdp.DebtCurrency)
		writeJSONOutput(summary)
	},
}

func writeJSONOutput(v interface{}) {
	if config.JSONOutputFile == "" {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		appUI.Error("Couldn't marshal the summary: %s", err)
		return
	}
	if err = os.WriteFile(config.JSONOutputFile, data, 0644); err != nil {
		appUI.Error("Couldn't write %s: %s", config.JSONOutputFile, err)
		return
	}
	appUI.Info("Wrote the summary to %s.", config.JSONOutputFile)
}

func init() {
	infoCmd.PersistentFlags().
		StringVarP(&config.From, "from", "f", "", "Wallet to inspect. It can be an ethereum address or a hint string to look it up in the list of accounts.")
	infoCmd.PersistentFlags().
		StringVarP(&config.JSONOutputFile, "json-output", "o", "", "Write the result as JSON to this file as well")
	rootCmd.AddCommand(infoCmd)
}
