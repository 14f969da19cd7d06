package cmd

import (
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vaultis/vaultis/accounts"
	cmdutil "github.com/vaultis/vaultis/cmd/util"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage your wallets",
	Long:  ``,
}

func getPassword(prompt string) string {
	appUI.Info(prompt)
	bytePassword, _ := term.ReadPassword(int(syscall.Stdin))
	return string(bytePassword)
}

func handleAddKeystoreGivenPath(keystorePath string) error {
	accDesc := accounts.AccDesc{
		Kind:    "keystore",
		Keypath: keystorePath,
	}
	address, err := accounts.VerifyKeystore(keystorePath)
	if err != nil {
		appUI.Error("Keystore path verification failed. %s. Abort.", err)
		return err
	}
	accDesc.Address = address
	appUI.Info("This keystore is with %s", address)
	accDesc.Desc = cmdutil.PromptInput(
		appUI,
		"Please enter description of this wallet, it will be used to search your wallet by keywords",
	)
	if err = accounts.StoreAccountRecord(accDesc); err != nil {
		appUI.Error("Couldn't store your wallet info: %s. Abort.", err)
		return err
	}
	appUI.Success("Created ~/.vaultis/%s.json to store the keystore info. That file contains the path of your keystore file so please don't move your keystore file later.", address)
	appUI.Info("Your wallet is added successfully. You can check your list of wallets using the following command:\n> vaultis wallet list")
	return nil
}

func handleAddKeystore() {
	appUI.Warn("Keystore is convenient but not so safe. Use it only for unimportant frequent tasks.")
	keystorePath := strings.TrimSpace(cmdutil.PromptFilePath(appUI, "Please enter the path to your keystore file"))
	handleAddKeystoreGivenPath(keystorePath)
}

func handleAddPrivateKey() {
	appUI.Warn("Storing plain private key is NOT secure. Let's encrypt it to a Keystore.")
	appUI.Info("Please enter or paste your private key in hex format (without 0x prefix). It will not be displayed on your terminal to avoid stdout logging.")
	privHex := getPassword("Paste your private key now: ")
	passphrase := getPassword("\nEnter your passcode to encrypt the private key: ")
	appUI.Info("")
	path, err := accounts.StorePrivateKeyWithKeystore(privHex, passphrase)
	if err != nil {
		appUI.Error("Private key encryption failed: %s. Abort.", err)
		return
	}
	appUI.Success("Stored encrypted private key at %s.", path)

	if err = handleAddKeystoreGivenPath(path); err != nil {
		appUI.Error("Adding private key wallet failed: %s", err)
	}
}

var addWalletCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a wallet to vaultis",
	Run: func(cmd *cobra.Command, args []string) {
		keyType := cmdutil.PromptItemInList(
			appUI,
			"Enter key type (enter either keystore or privatekey):",
			[]string{"keystore", "privatekey"},
		)
		switch strings.TrimSpace(keyType) {
		case "keystore":
			handleAddKeystore()
		case "privatekey":
			handleAddPrivateKey()
		}
	},
}

var listWalletCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of your wallets",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		accs := accounts.GetAccounts()
		appUI.Info("You have %d wallets:", len(accs))

		type accountInfo struct {
			addr string
			acc  accounts.AccDesc
		}
		var accountList []accountInfo
		for addr, acc := range accs {
			accountList = append(accountList, accountInfo{addr: addr, acc: acc})
		}
		sort.Slice(accountList, func(i, j int) bool {
			return accountList[i].acc.Desc < accountList[j].acc.Desc
		})
		for index, item := range accountList {
			appUI.Info("%d. %s: %s (%s)", index+1, item.addr, item.acc.Kind, item.acc.Desc)
		}
		appUI.Info("\nIf you want to add more wallets to the list, use following command:\n> vaultis wallet add")
	},
}

func init() {
	walletCmd.AddCommand(listWalletCmd)
	walletCmd.AddCommand(addWalletCmd)
	rootCmd.AddCommand(walletCmd)
}
