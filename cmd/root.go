package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultis/vaultis/config"
	"github.com/vaultis/vaultis/networks"
	"github.com/vaultis/vaultis/ui"
)

var appUI ui.UI = ui.NewTerminalUI()

func supportedNetworkNames() []string {
	names := []string{}
	for _, n := range networks.GetSupportedNetworks() {
		names = append(names, n.GetName())
	}
	return names
}

func nodeVariableHelp() string {
	lines := []string{}
	for _, n := range networks.GetSupportedNetworks() {
		lines = append(lines, fmt.Sprintf(
			"  %s (defaults to built-in public nodes)",
			n.GetNodeVariableName(),
		))
	}
	return strings.Join(lines, "\n")
}

var rootCmd = &cobra.Command{
	Use:   "vaultis",
	Short: "Maker vault management from your terminal",
	Long: fmt.Sprintf(`Vaultis opens and manages Maker vaults (CDPs) through a DS proxy
owned by your wallet. It talks to the chain via JSON RPC nodes, keeps your
keys in local keystores under ~/.vaultis and never sends them anywhere.

You can override the nodes vaultis uses with the following env variables,
each holding a comma separated list of RPC endpoints:
%s`, nodeVariableHelp()),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(
		&config.Network,
		"network", "N", "mainnet",
		fmt.Sprintf("Ethereum network. Valid values: %s.", strings.Join(supportedNetworkNames(), ", ")),
	)
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		networks.SetNetwork(config.Network)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
