package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultis/vaultis/config"
)

var freeValue float64

var freeCmd = &cobra.Command{
	Use:   "free",
	Short: "Withdraw collateral from a vault",
	Long: `Withdraw collateral from a vault back to your wallet. The withdrawal
reverts on chain if it would leave the vault undercollateralized or if
the vault isn't owned by your proxy.`,
	Run: func(cmd *cobra.Command, args []string) {
		if config.CdpID == 0 {
			appUI.Error("no vault specified, please use --cdp")
			return
		}
		if freeValue <= 0 {
			appUI.Error("nothing to withdraw, please specify --value")
			return
		}

		m, err := newCdpManager()
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		pos, _, err := m.Cdp(config.CdpID)
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		ilk, err := m.Ilks().Get(pos.Ilk)
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		amount := collateralToWei(ilk, freeValue)
		if !appUI.Confirm(fmt.Sprintf("Withdraw %f %s from vault %d?", freeValue, ilk.Currency, pos.ID), true) {
			appUI.Warn("Aborted.")
			return
		}

		op, err := m.FreeCollateral(pos.ID, amount)
		if err != nil {
			appUI.Error("Couldn't plan the operation: %s", err)
			return
		}
		if _, err = watchOperation(op); err != nil {
			appUI.Error("Withdrawal failed: %s", err)
			return
		}
		appUI.Success("Withdrew %f %s from vault %d.", freeValue, ilk.Currency, pos.ID)
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(freeCmd)
	freeCmd.PersistentFlags().
		Uint64VarP(&config.CdpID, "cdp", "c", 0, "Vault id to withdraw from")
	freeCmd.PersistentFlags().
		Float64VarP(&freeValue, "value", "v", 0, "Collateral amount to withdraw, in the collateral's display unit")
	rootCmd.AddCommand(freeCmd)
}
