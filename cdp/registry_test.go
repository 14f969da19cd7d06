package cdp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() (*Registry, *fakeChain, *fakeLedger) {
	chain := newFakeChain(testAddr(0x01))
	chain.proxy = testAddr(0xaaaa)
	ledger := &fakeLedger{chain: chain}
	return NewRegistry(ledger), chain, ledger
}

func TestCdpIdsWalksListInCreationOrder(t *testing.T) {
	registry, chain, _ := newTestRegistry()
	chain.addCdp("ETH-A")
	chain.addCdp("BAT-A")
	chain.addCdp("ETH-A")

	positions, err := registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	assert.Equal(t, []Position{
		{ID: 1, Ilk: "ETH-A"},
		{ID: 2, Ilk: "BAT-A"},
		{ID: 3, Ilk: "ETH-A"},
	}, positions)
}

func TestCdpIdsCachesPerProxy(t *testing.T) {
	registry, chain, ledger := newTestRegistry()
	chain.addCdp("ETH-A")

	_, err := registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.countCalls)

	// second read answers from the cache, even though the chain moved on
	chain.addCdp("BAT-A")
	positions, err := registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.countCalls)
	assert.Len(t, positions, 1)
}

func TestCdpIdsCachesEmptyList(t *testing.T) {
	registry, chain, ledger := newTestRegistry()

	positions, err := registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	assert.Empty(t, positions)

	_, err = registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.countCalls)
}

func TestResetDropsTheCache(t *testing.T) {
	registry, chain, ledger := newTestRegistry()
	chain.addCdp("ETH-A")

	_, err := registry.CdpIds(chain.proxy)
	require.NoError(t, err)

	chain.addCdp("BAT-A")
	registry.Reset()

	positions, err := registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.countCalls)
	assert.Len(t, positions, 2)
}

func TestInvalidateDropsOneProxy(t *testing.T) {
	registry, chain, ledger := newTestRegistry()
	chain.addCdp("ETH-A")

	_, err := registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	registry.Invalidate(chain.proxy)

	_, err = registry.CdpIds(chain.proxy)
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.countCalls)
}

func TestCdpIdsRejectsListLongerThanCount(t *testing.T) {
	registry, chain, ledger := newTestRegistry()
	chain.addCdp("ETH-A")
	chain.addCdp("BAT-A")
	// corrupt pointers looping the two cdps forever
	ledger.nextOverride = map[uint64]uint64{1: 2, 2: 1}

	_, err := registry.CdpIds(chain.proxy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longer than its count")
}

func TestCdpResolvesSinglePosition(t *testing.T) {
	registry, chain, _ := newTestRegistry()
	id := chain.addCdp("BAT-A")

	position, owner, err := registry.Cdp(id)
	require.NoError(t, err)
	assert.Equal(t, Position{ID: id, Ilk: "BAT-A"}, position)
	assert.Equal(t, chain.proxy, owner)
}

func TestCdpUnknownIdFails(t *testing.T) {
	registry, _, _ := newTestRegistry()

	_, _, err := registry.Cdp(99)
	require.Error(t, err)
	var notFound *CdpNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, uint64(99), notFound.ID)
}
