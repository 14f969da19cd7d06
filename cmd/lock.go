package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/vaultis/vaultis/cdp"
	cmdutil "github.com/vaultis/vaultis/cmd/util"
	"github.com/vaultis/vaultis/config"
	"github.com/vaultis/vaultis/networks"
)

// warnIfAllowanceLow checks the wallet's token approval to its proxy
// before a transferFrom based lock. A short approval only reverts on
// chain after gas is spent, so surface it up front. Best effort, read
// failures stay silent.
func warnIfAllowanceLow(m *cdp.Manager, ilk cdp.Ilk, lock *big.Int) {
	if ilk.IsEther || ilk.RequiresBag || lock == nil || lock.Sign() <= 0 {
		return
	}
	proxy, found, err := m.CurrentProxy()
	if err != nil || !found {
		return
	}
	r := cmdutil.NewContextManager().Reader(networks.CurrentNetwork())
	allowance, err := r.ERC20Allowance(ilk.Gem.Hex(), m.Owner().Hex(), proxy.Hex())
	if err != nil {
		return
	}
	if allowance.Cmp(lock) < 0 {
		appUI.Warn(
			"Your proxy is only approved to pull %s %s wei, the lock will revert. Approve the proxy on the %s token first.",
			allowance.String(), ilk.Currency, ilk.Currency,
		)
	}
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock collateral into a vault and draw dai",
	Long: `Lock collateral into a vault and optionally draw dai against it in one
flow. With --cdp the collateral goes to that existing vault, without it
a new vault is opened. Collateral types that need a token bag get the
bag created and funded automatically before the lock.`,
	Run: func(cmd *cobra.Command, args []string) {
		if config.IlkSymbol == "" {
			appUI.Error("no collateral type specified, please use --ilk, eg. --ilk ETH-A")
			return
		}
		if config.LockValue <= 0 && config.DrawValue <= 0 {
			appUI.Error("nothing to do, please specify --lock and/or --draw")
			return
		}

		m, err := newCdpManager()
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		ilk, err := m.Ilks().Get(config.IlkSymbol)
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		req := cdp.LockRequest{
			IlkSymbol: ilk.Symbol,
			CdpID:     config.CdpID,
		}
		if config.LockValue > 0 {
			req.Lock = collateralToWei(ilk, config.LockValue)
		}
		if config.DrawValue > 0 {
			req.Draw = daiToWei(config.DrawValue)
		}
		warnIfAllowanceLow(m, ilk, req.Lock)

		target := "a new vault"
		if req.CdpID != 0 {
			target = fmt.Sprintf("vault %d", req.CdpID)
		}
		appUI.Section("lock and draw")
		appUI.KeyValue([][2]string{
			{"Wallet", m.Owner().Hex()},
			{"Vault", target},
			{"Lock", fmt.Sprintf("%f %s", config.LockValue, ilk.Currency)},
			{"Draw", fmt.Sprintf("%f %s", config.DrawValue, cdp.DebtCurrency)},
		})
		if !appUI.Confirm("Proceed?", true) {
			appUI.Warn("Aborted.")
			return
		}

		op, err := m.LockAndDraw(req)
		if err != nil {
			appUI.Error("Couldn't plan the operation: %s", err)
			return
		}
		pos, err := watchOperation(op)
		if err != nil {
			appUI.Error("Lock and draw failed: %s", err)
			return
		}
		if pos == nil {
			appUI.Success("Transactions are broadcast. Run \"vaultis info\" later to see the result.")
			return
		}
		appUI.Success("Vault %d (%s) is updated.", pos.ID, pos.Ilk)
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(lockCmd)
	lockCmd.PersistentFlags().
		StringVarP(&config.IlkSymbol, "ilk", "i", "", "Collateral type of the vault, eg. ETH-A")
	lockCmd.PersistentFlags().
		Uint64VarP(&config.CdpID, "cdp", "c", 0, "Existing vault id to top up. Omit to open a new vault.")
	lockCmd.PersistentFlags().
		Float64VarP(&config.LockValue, "lock", "l", 0, "Collateral amount to lock, in the collateral's display unit, eg. 1.5 for 1.5 ETH")
	lockCmd.PersistentFlags().
		Float64VarP(&config.DrawValue, "draw", "D", 0, "Dai amount to draw against the vault")
	rootCmd.AddCommand(lockCmd)
}
