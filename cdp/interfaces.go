package cdp

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Position is one cdp as seen from its owning proxy.
type Position struct {
	ID  uint64
	Ilk string
}

// IlkUrn addresses a position the way event indexers do, by collateral
// type and urn instead of cdp id.
type IlkUrn struct {
	Ilk string
	Urn common.Address
}

// Ledger reads cdp related state from the chain. Implementations are
// expected to answer from the canonical contracts, the core treats the
// answers as authoritative.
type Ledger interface {
	// ProxyOf returns the owner's proxy, or the zero address when the
	// owner has none yet.
	ProxyOf(owner common.Address) (common.Address, error)
	// CdpCount returns how many cdps the proxy owns.
	CdpCount(proxy common.Address) (uint64, error)
	// FirstCdp returns the proxy's oldest cdp id, 0 when it has none.
	FirstCdp(proxy common.Address) (uint64, error)
	// NextCdp returns the id opened right after the given one by the
	// same owner, 0 at the end of the list.
	NextCdp(id uint64) (uint64, error)
	CdpIlk(id uint64) (string, error)
	CdpUrn(id uint64) (common.Address, error)
	CdpOwner(id uint64) (common.Address, error)
	// UrnDebt returns the urn's outstanding debt in dai wei, already
	// multiplied by the ilk's accumulated rate.
	UrnDebt(ilk string, urn common.Address) (*big.Int, error)
	// BagOf probes the adapter for the proxy's bag, zero when none
	// exists. It never creates one.
	BagOf(proxy common.Address, adapter common.Address) (common.Address, error)
	TokenBalance(token common.Address, holder common.Address) (*big.Int, error)
}

// PendingTx is a submitted transaction. Wait blocks until it is mined
// and returns nil on success, a *ContractRevertError when the chain
// rejected it, or another error when its fate couldn't be determined.
type PendingTx interface {
	Hash() string
	Wait() error
}

// TxBackend submits the proxy routed transactions the manager needs.
// Every call returns once the transaction is pending on the network.
type TxBackend interface {
	// BuildProxy registers a new proxy for the current account.
	BuildProxy() (PendingTx, error)
	// CreateBag asks the adapter, via the proxy, to create the proxy's
	// bag.
	CreateBag(proxy common.Address, join common.Address) (PendingTx, error)
	// TransferToBag moves amount of token from the current account into
	// the bag.
	TransferToBag(token common.Address, bag common.Address, amount *big.Int) (PendingTx, error)
	// Open creates an empty cdp for the ilk, owned by the proxy.
	Open(proxy common.Address, ilk Ilk) (PendingTx, error)
	// LockAndDraw executes the resolved proxy actions method. cdpID is
	// ignored for the open variants, lock is in the collateral's
	// smallest unit, draw is in dai wei.
	LockAndDraw(proxy common.Address, method LockMethod, ilk Ilk, cdpID uint64, lock *big.Int, draw *big.Int) (PendingTx, error)
	// FreeCollateral withdraws amount of collateral from the cdp back to
	// the current account.
	FreeCollateral(proxy common.Address, ilk Ilk, cdpID uint64, amount *big.Int) (PendingTx, error)
}

// RawEvent is an event row exactly as the query collaborator returned
// it.
type RawEvent struct {
	Ilk       string
	Type      string
	Amount    *big.Int
	Timestamp time.Time
	TxHash    string
	Block     uint64
}

// Event is a raw event normalized with the currency resolved from the
// ilk table.
type Event struct {
	Ilk       string
	Currency  string
	Amount    Amount
	Type      string
	Timestamp time.Time
	TxHash    string
	Block     uint64
}

// QueryService returns historical cdp events from an external indexer.
// The order of the returned slice is the indexer's own, typically
// chronological, and is preserved by the core.
type QueryService interface {
	CdpEvents(pairs []IlkUrn) ([]RawEvent, error)
}
