package cdp

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type bagKey struct {
	proxy   common.Address
	adapter common.Address
}

// BagResolver manages the custodial bag contracts some tokens need
// before their collateral can enter an adapter. Bags are created lazily
// and at most once per (proxy, adapter): the whole probe-create-confirm
// sequence runs under a per pair lock, and existence is re-checked right
// before a creation tx is submitted so concurrent callers end up sharing
// one bag.
type BagResolver struct {
	ledger  Ledger
	backend TxBackend

	mu    sync.Mutex
	locks map[bagKey]*sync.Mutex
}

func NewBagResolver(ledger Ledger, backend TxBackend) *BagResolver {
	return &BagResolver{
		ledger:  ledger,
		backend: backend,
		locks:   map[bagKey]*sync.Mutex{},
	}
}

func (b *BagResolver) lockFor(proxy, adapter common.Address) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := bagKey{proxy: proxy, adapter: adapter}
	lock, found := b.locks[key]
	if !found {
		lock = &sync.Mutex{}
		b.locks[key] = lock
	}
	return lock
}

// BagAddress probes the adapter for the proxy's bag. It never creates
// one, absence is reported with found=false.
func (b *BagResolver) BagAddress(proxy common.Address, adapter common.Address) (common.Address, bool, error) {
	bag, err := b.ledger.BagOf(proxy, adapter)
	if err != nil {
		return common.Address{}, false, err
	}
	if bag == (common.Address{}) {
		return common.Address{}, false, nil
	}
	return bag, true, nil
}

// EnsureBag returns the proxy's bag for the ilk's adapter, creating one
// when none exists. onPending, when not nil, is called with the creation
// tx hash right after it is submitted, before waiting on it. The second
// of two sequential calls returns the same address without submitting
// anything.
func (b *BagResolver) EnsureBag(proxy common.Address, ilk Ilk, onPending func(hash string)) (common.Address, error) {
	lock := b.lockFor(proxy, ilk.Join)
	lock.Lock()
	defer lock.Unlock()

	bag, found, err := b.BagAddress(proxy, ilk.Join)
	if err != nil {
		return common.Address{}, &BagCreationFailedError{Proxy: proxy, Adapter: ilk.Join, Err: err}
	}
	if found {
		return bag, nil
	}

	tx, err := b.backend.CreateBag(proxy, ilk.Join)
	if err != nil {
		return common.Address{}, &BagCreationFailedError{Proxy: proxy, Adapter: ilk.Join, Err: err}
	}
	if onPending != nil {
		onPending(tx.Hash())
	}
	if err = tx.Wait(); err != nil {
		return common.Address{}, &BagCreationFailedError{Proxy: proxy, Adapter: ilk.Join, Err: err}
	}

	bag, found, err = b.BagAddress(proxy, ilk.Join)
	if err != nil {
		return common.Address{}, &BagCreationFailedError{Proxy: proxy, Adapter: ilk.Join, Err: err}
	}
	if !found {
		return common.Address{}, &BagCreationFailedError{
			Proxy: proxy, Adapter: ilk.Join,
			Err: fmt.Errorf("bag still absent after creation tx %s was mined", tx.Hash()),
		}
	}
	return bag, nil
}

// TransferToBag makes sure the bag exists, then moves amount of the
// ilk's token into it. Failures are surfaced once, there is no retry.
func (b *BagResolver) TransferToBag(amount Amount, proxy common.Address, ilk Ilk, onPending func(hash string)) (common.Address, error) {
	bag, err := b.EnsureBag(proxy, ilk, onPending)
	if err != nil {
		return common.Address{}, err
	}

	tx, err := b.backend.TransferToBag(ilk.Gem, bag, amount.Value)
	if err != nil {
		return bag, &TransferFailedError{Currency: amount.Currency, Bag: bag, Err: err}
	}
	if onPending != nil {
		onPending(tx.Hash())
	}
	if err = tx.Wait(); err != nil {
		return bag, &TransferFailedError{Currency: amount.Currency, Bag: bag, Err: err}
	}
	return bag, nil
}
