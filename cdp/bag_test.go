package cdp

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBags() (*BagResolver, *fakeChain, *fakeLedger, *fakeBackend) {
	chain := newFakeChain(testAddr(0x01))
	chain.proxy = testAddr(0xaaaa)
	ledger := &fakeLedger{chain: chain}
	backend := &fakeBackend{chain: chain}
	return NewBagResolver(ledger, backend), chain, ledger, backend
}

func TestEnsureBagCreatesAtMostOnce(t *testing.T) {
	bags, chain, _, backend := newTestBags()
	gnt, err := testIlks().Get("GNT-A")
	require.NoError(t, err)

	hashes := []string{}
	onPending := func(hash string) { hashes = append(hashes, hash) }

	bag, err := bags.EnsureBag(chain.proxy, gnt, onPending)
	require.NoError(t, err)
	assert.NotEqual(t, common.Address{}, bag)
	assert.Equal(t, 1, backend.createBagCalls)
	assert.Len(t, hashes, 1)

	// second call sees the existing bag and submits nothing
	again, err := bags.EnsureBag(chain.proxy, gnt, onPending)
	require.NoError(t, err)
	assert.Equal(t, bag, again)
	assert.Equal(t, 1, backend.createBagCalls)
	assert.Len(t, hashes, 1)
}

func TestBagAddressNeverCreates(t *testing.T) {
	bags, chain, _, backend := newTestBags()
	gnt, err := testIlks().Get("GNT-A")
	require.NoError(t, err)

	_, found, err := bags.BagAddress(chain.proxy, gnt.Join)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, backend.createBagCalls)
}

func TestEnsureBagSubmitFailure(t *testing.T) {
	bags, chain, _, backend := newTestBags()
	gnt, err := testIlks().Get("GNT-A")
	require.NoError(t, err)
	backend.createBagErr = fmt.Errorf("out of gas")

	_, err = bags.EnsureBag(chain.proxy, gnt, nil)
	require.Error(t, err)
	var failed *BagCreationFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, chain.proxy, failed.Proxy)
	assert.Equal(t, gnt.Join, failed.Adapter)
}

func TestTransferToBagFundsTheBag(t *testing.T) {
	bags, chain, ledger, backend := newTestBags()
	gnt, err := testIlks().Get("GNT-A")
	require.NoError(t, err)
	amount := NewAmount("GNT", big.NewInt(5e18))

	bag, err := bags.TransferToBag(amount, chain.proxy, gnt, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.createBagCalls)
	assert.Equal(t, 1, backend.transferCalls)

	balance, err := ledger.TokenBalance(gnt.Gem, bag)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(5e18)))
}

func TestEnsureBagConcurrentCallersShareOneBag(t *testing.T) {
	bags, chain, _, backend := newTestBags()
	gnt, err := testIlks().Get("GNT-A")
	require.NoError(t, err)

	const callers = 8
	results := make([]common.Address, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = bags.EnsureBag(chain.proxy, gnt, nil)
		}(i)
	}
	wg.Wait()

	// exactly one creation tx, every caller ends up with the same bag
	assert.Equal(t, 1, backend.createBagCalls)
	require.NotEqual(t, common.Address{}, results[0])
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestTransferToBagReusesExistingBag(t *testing.T) {
	bags, chain, _, backend := newTestBags()
	gnt, err := testIlks().Get("GNT-A")
	require.NoError(t, err)

	first, err := bags.EnsureBag(chain.proxy, gnt, nil)
	require.NoError(t, err)

	bag, err := bags.TransferToBag(NewAmount("GNT", big.NewInt(1)), chain.proxy, gnt, nil)
	require.NoError(t, err)
	assert.Equal(t, first, bag)
	assert.Equal(t, 1, backend.createBagCalls)
}
