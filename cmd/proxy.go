package cmd

import (
	"github.com/spf13/cobra"
)

var buildProxy bool

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Show or build your DS proxy",
	Long: `Every vault is owned by a DS proxy that belongs to your wallet. This
command shows your proxy, and builds one with --build if you don't have
one yet. Opening a vault builds the proxy on demand, you rarely need
this directly.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newCdpManager()
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		proxy, found, err := m.CurrentProxy()
		if err != nil {
			appUI.Error("Couldn't look up your proxy: %s", err)
			return
		}
		if found {
			appUI.Success("Your proxy is %s.", proxy.Hex())
			return
		}
		if !buildProxy {
			appUI.Info("You don't have a DS proxy yet. Build one with:\n> vaultis proxy --build")
			return
		}

		stop := appUI.Spinner("building your proxy")
		proxy, err = m.EnsureProxy()
		stop()
		if err != nil {
			appUI.Error("Building the proxy failed: %s", err)
			return
		}
		appUI.Success("Built proxy %s.", proxy.Hex())
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(proxyCmd)
	proxyCmd.PersistentFlags().
		BoolVarP(&buildProxy, "build", "b", false, "Build the proxy if you don't have one")
	rootCmd.AddCommand(proxyCmd)
}
