package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var createBag bool

var bagCmd = &cobra.Command{
	Use:   "bag <ilk>",
	Short: "Show or create the token bag for a collateral type",
	Long: `Some collateral types can't be pulled with transferFrom, so their
adapter keeps a per-proxy bag the collateral has to be parked in before
it can be locked. This command shows your proxy's bag for the given
collateral type, and creates it with --create if it doesn't exist yet.
Lock flows create bags on demand, you rarely need this directly.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		symbol := strings.ToUpper(strings.TrimSpace(args[0]))
		m, err := newCdpManager()
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		ilk, err := m.Ilks().Get(symbol)
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		if !ilk.RequiresBag {
			appUI.Info("%s doesn't use a bag, its collateral is locked directly.", ilk.Symbol)
			return
		}

		proxy, found, err := m.CurrentProxy()
		if err != nil {
			appUI.Error("Couldn't look up your proxy: %s", err)
			return
		}
		if !found {
			appUI.Error("You don't have a DS proxy yet. Open a vault first:\n> vaultis open %s", ilk.Symbol)
			return
		}

		bag, exists, err := m.Bags().BagAddress(proxy, ilk.Join)
		if err != nil {
			appUI.Error("Couldn't probe the bag: %s", err)
			return
		}
		if exists {
			appUI.Success("Your %s bag is %s.", ilk.Symbol, bag.Hex())
			return
		}
		if !createBag {
			appUI.Info("Your proxy has no %s bag yet. Create one with:\n> vaultis bag %s --create", ilk.Symbol, ilk.Symbol)
			return
		}

		stop := appUI.Spinner("creating the bag")
		bag, err = m.Bags().EnsureBag(proxy, ilk, func(hash string) {})
		stop()
		if err != nil {
			appUI.Error("Bag creation failed: %s", err)
			return
		}
		appUI.Success("Created %s bag %s.", ilk.Symbol, bag.Hex())
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(bagCmd)
	bagCmd.PersistentFlags().
		BoolVarP(&createBag, "create", "C", false, "Create the bag if it doesn't exist")
	rootCmd.AddCommand(bagCmd)
}
