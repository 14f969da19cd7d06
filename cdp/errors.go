package cdp

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// UnsupportedCollateralError means the collateral symbol is not in the
// deployment's ilk table.
type UnsupportedCollateralError struct {
	Symbol string
}

func (e *UnsupportedCollateralError) Error() string {
	return fmt.Sprintf("unsupported collateral type '%s'", e.Symbol)
}

// CdpNotFoundError means the cdp id doesn't exist on chain.
type CdpNotFoundError struct {
	ID uint64
}

func (e *CdpNotFoundError) Error() string {
	return fmt.Sprintf("cdp %d is not found on chain", e.ID)
}

type BagCreationFailedError struct {
	Proxy   common.Address
	Adapter common.Address
	Err     error
}

func (e *BagCreationFailedError) Error() string {
	return fmt.Sprintf(
		"creating bag for proxy %s on adapter %s failed: %s",
		e.Proxy.Hex(), e.Adapter.Hex(), e.Err,
	)
}

func (e *BagCreationFailedError) Unwrap() error {
	return e.Err
}

type TransferFailedError struct {
	Currency string
	Bag      common.Address
	Err      error
}

func (e *TransferFailedError) Error() string {
	return fmt.Sprintf(
		"transferring %s into bag %s failed: %s",
		e.Currency, e.Bag.Hex(), e.Err,
	)
}

func (e *TransferFailedError) Unwrap() error {
	return e.Err
}

// ContractRevertError carries a revert detected by the chain itself, for
// example an ownership check inside the cdp manager contract. The reason
// is passed through as the node reported it.
type ContractRevertError struct {
	TxHash string
	Reason string
}

func (e *ContractRevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("tx %s reverted", e.TxHash)
	}
	return fmt.Sprintf("tx %s reverted: %s", e.TxHash, e.Reason)
}
