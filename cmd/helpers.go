package cmd

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vaultis/vaultis/accounts"
	"github.com/vaultis/vaultis/cdp"
	cmdutil "github.com/vaultis/vaultis/cmd/util"
	vcommon "github.com/vaultis/vaultis/common"
	"github.com/vaultis/vaultis/config"
	"github.com/vaultis/vaultis/util"
)

// resolveWallet turns config.From into a concrete wallet address. It
// accepts a raw hex address or a hint string matched against the
// registered wallet descriptions.
func resolveWallet() (common.Address, error) {
	if config.From == "" {
		return common.Address{}, fmt.Errorf("no wallet specified, please use --from with an address or a wallet hint")
	}
	if util.IsAddress(config.From) {
		return vcommon.HexToAddress(config.From), nil
	}
	acc, err := accounts.GetAccount(config.From)
	if err != nil {
		return common.Address{}, fmt.Errorf("couldn't find a wallet matching %q: %w", config.From, err)
	}
	appUI.Interpret(fmt.Sprintf("%s (%s)", acc.Address, acc.Desc))
	return vcommon.HexToAddress(acc.Address), nil
}

// newCdpManager is a variable so tests can swap in a manager backed by
// fakes instead of live nodes.
var newCdpManager = func() (*cdp.Manager, error) {
	wallet, err := resolveWallet()
	if err != nil {
		return nil, err
	}
	return cmdutil.CdpManager(cmdutil.NewContextManager(), wallet)
}

func collateralToWei(ilk cdp.Ilk, value float64) *big.Int {
	if ilk.IsEther {
		return vcommon.EthToWei(value)
	}
	return vcommon.FloatToBigInt(value, uint64(ilk.Precision))
}

func daiToWei(value float64) *big.Int {
	return vcommon.FloatToBigInt(value, 18)
}

// watchOperation subscribes to op, starts it and renders every step
// transition until the operation settles. It returns the settled
// position (nil for operations that don't create one) and the
// operation error if any step failed.
func watchOperation(op *cdp.Operation) (*cdp.Position, error) {
	updates := op.Subscribe()
	op.Start()

	var stop func()
	for status := range updates {
		switch status.State {
		case cdp.StepPending:
			if stop != nil {
				stop()
			}
			msg := fmt.Sprintf("step %d/%d: %s.%s", status.Index, status.Total, status.Contract, status.Method)
			if status.TxHash != "" {
				msg = fmt.Sprintf("%s (tx %s)", msg, status.TxHash)
			}
			stop = appUI.Spinner(msg)
		case cdp.StepMined:
			if stop != nil {
				stop()
				stop = nil
			}
			if status.TxHash == "" {
				appUI.Success("step %d/%d: %s.%s already in place, skipped", status.Index, status.Total, status.Contract, status.Method)
			} else {
				appUI.Success("step %d/%d: %s.%s mined (tx %s)", status.Index, status.Total, status.Contract, status.Method, status.TxHash)
			}
		case cdp.StepErrored:
			if stop != nil {
				stop()
				stop = nil
			}
			appUI.Error("step %d/%d: %s.%s failed: %s", status.Index, status.Total, status.Contract, status.Method, status.Err)
		}
	}
	return op.Wait()
}
