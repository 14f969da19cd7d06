package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultis/vaultis/cdp"
	cmdutil "github.com/vaultis/vaultis/cmd/util"
	"github.com/vaultis/vaultis/networks"
)

var ilkCmd = &cobra.Command{
	Use:   "ilk",
	Short: "Inspect the supported collateral types",
}

var listIlkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the collateral types supported on the current network",
	Run: func(cmd *cobra.Command, args []string) {
		network := networks.CurrentNetwork()
		deploy, err := cdp.DeploymentByChainID(network.GetChainID())
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		rows := [][]string{}
		for _, ilk := range deploy.Ilks.All() {
			unit := "wei"
			if !ilk.IsEther {
				unit = fmt.Sprintf("%d decimals", ilk.Precision)
			}
			bag := "no"
			if ilk.RequiresBag {
				bag = "yes"
			}
			rows = append(rows, []string{ilk.Symbol, ilk.Currency, unit, bag})
		}
		appUI.Section(fmt.Sprintf("collaterals on %s", network.GetName()))
		appUI.Table([]string{"ilk", "token", "precision", "bag"}, rows)
	},
}

var showIlkCmd = &cobra.Command{
	Use:   "show <ilk>",
	Short: "Show one collateral type, including live token metadata",
	Long: `Show the configuration of one collateral type and, for token backed
collaterals, the symbol and decimals the token contract itself reports.
A decimal mismatch means locked amounts would be misscaled.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		symbol := strings.ToUpper(strings.TrimSpace(args[0]))
		network := networks.CurrentNetwork()
		deploy, err := cdp.DeploymentByChainID(network.GetChainID())
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		ilk, err := deploy.Ilks.Get(symbol)
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		unit := "wei"
		if !ilk.IsEther {
			unit = fmt.Sprintf("%d decimals", ilk.Precision)
		}
		bag := "no"
		if ilk.RequiresBag {
			bag = "yes"
		}
		rows := [][2]string{
			{"Ilk", ilk.Symbol},
			{"Token", ilk.Currency},
			{"Precision", unit},
			{"Bag", bag},
			{"Join adapter", ilk.Join.Hex()},
		}
		if !ilk.IsEther {
			rows = append(rows, [2]string{"Token contract", ilk.Gem.Hex()})
			r := cmdutil.NewContextManager().Reader(network)
			if onchain, err := r.ERC20Symbol(ilk.Gem.Hex()); err == nil {
				rows = append(rows, [2]string{"On-chain symbol", onchain})
			}
			if decimals, err := r.ERC20Decimal(ilk.Gem.Hex()); err == nil {
				rows = append(rows, [2]string{"On-chain decimals", fmt.Sprintf("%d", decimals)})
				if ilk.Precision != cdp.BaseUnit && uint64(ilk.Precision) != decimals {
					appUI.Warn(
						"%s is configured with %d decimals but the token reports %d.",
						ilk.Symbol, ilk.Precision, decimals,
					)
				}
			}
		}
		appUI.Section(ilk.Symbol)
		appUI.KeyValue(rows)
	},
}

func init() {
	ilkCmd.AddCommand(listIlkCmd)
	ilkCmd.AddCommand(showIlkCmd)
	rootCmd.AddCommand(ilkCmd)
}
