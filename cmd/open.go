package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <ilk>",
	Short: "Open an empty vault for a collateral type",
	Long: `Open an empty vault (cdp) for the given collateral type, eg. ETH-A.
If your wallet doesn't have a DS proxy yet, one is built first in the
same flow. See "vaultis ilk list" for the supported collateral types.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		symbol := strings.ToUpper(strings.TrimSpace(args[0]))
		m, err := newCdpManager()
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		if _, err = m.Ilks().Get(symbol); err != nil {
			appUI.Error("%s", err)
			return
		}

		op, err := m.Open(symbol)
		if err != nil {
			appUI.Error("Couldn't plan the operation: %s", err)
			return
		}
		pos, err := watchOperation(op)
		if err != nil {
			appUI.Error("Opening the vault failed: %s", err)
			return
		}
		if pos == nil {
			appUI.Success("Transactions are broadcast. Run \"vaultis info\" later to see the new vault.")
			return
		}
		appUI.Success("Vault %d (%s) is ready.", pos.ID, pos.Ilk)
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(openCmd)
	rootCmd.AddCommand(openCmd)
}
