package cdp

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	manager *Manager
	chain   *fakeChain
	ledger  *fakeLedger
	backend *fakeBackend
	query   *fakeQuery
}

func newManagerFixture(withProxy bool) *managerFixture {
	owner := testAddr(0x01)
	chain := newFakeChain(owner)
	if withProxy {
		chain.proxy = testAddr(0xaaaa)
	}
	ledger := &fakeLedger{chain: chain}
	backend := &fakeBackend{chain: chain}
	query := &fakeQuery{}
	return &managerFixture{
		manager: NewManager(owner, ledger, backend, query, testIlks()),
		chain:   chain,
		ledger:  ledger,
		backend: backend,
		query:   query,
	}
}

func TestLockAndDrawOpensEtherCdp(t *testing.T) {
	f := newManagerFixture(false)

	op, err := f.manager.LockAndDraw(LockRequest{
		IlkSymbol: "ETH-A",
		Lock:      big.NewInt(2e18),
		Draw:      big.NewInt(100e9),
	})
	require.NoError(t, err)

	ch := op.Subscribe()
	pos, err := op.Run()
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, "ETH-A", pos.Ilk)

	// without a proxy the operation starts with the registry build
	assert.Equal(t, 1, f.backend.buildProxyCalls)
	require.Len(t, f.backend.lockCalls, 1)
	call := f.backend.lockCalls[0]
	assert.Equal(t, OpenLockETHAndDraw, call.method)
	assert.Equal(t, uint64(0), call.cdpID)
	assert.Equal(t, 0, call.lock.Cmp(big.NewInt(2e18)))

	transitions := collect(ch)
	assert.Len(t, transitions, 4)
}

func TestLockAndDrawTopsUpExistingGemCdp(t *testing.T) {
	f := newManagerFixture(true)
	id := f.chain.addCdp("BAT-A")

	op, err := f.manager.LockAndDraw(LockRequest{
		IlkSymbol: "BAT-A",
		CdpID:     id,
		Lock:      big.NewInt(1e18),
	})
	require.NoError(t, err)

	pos, err := op.Run()
	require.NoError(t, err)
	assert.Equal(t, id, pos.ID)

	assert.Equal(t, 0, f.backend.buildProxyCalls)
	assert.Equal(t, 0, f.backend.createBagCalls)
	require.Len(t, f.backend.lockCalls, 1)
	assert.Equal(t, LockGemAndDraw, f.backend.lockCalls[0].method)

	// a nil draw reaches the backend as zero
	assert.Equal(t, 0, f.backend.lockCalls[0].draw.Sign())
}

func TestLockAndDrawBagFlow(t *testing.T) {
	f := newManagerFixture(true)

	op, err := f.manager.LockAndDraw(LockRequest{
		IlkSymbol: "GNT-A",
		Lock:      big.NewInt(3e18),
		Draw:      big.NewInt(1e18),
	})
	require.NoError(t, err)

	ch := op.Subscribe()
	pos, err := op.Run()
	require.NoError(t, err)
	assert.Equal(t, "GNT-A", pos.Ilk)

	// bag is created by the make step and only found again by the
	// transfer step
	assert.Equal(t, 1, f.backend.createBagCalls)
	assert.Equal(t, 1, f.backend.transferCalls)
	require.Len(t, f.backend.lockCalls, 1)
	assert.Equal(t, OpenLockGemAndDraw, f.backend.lockCalls[0].method)

	gnt, err := testIlks().Get("GNT-A")
	require.NoError(t, err)
	bag := f.chain.bags[bagKey{proxy: f.chain.proxy, adapter: gnt.Join}]
	balance, err := f.ledger.TokenBalance(gnt.Gem, bag)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(3e18)))

	// make, transfer and the proxy actions call, two transitions each
	transitions := collect(ch)
	assert.Len(t, transitions, 6)
	assert.Equal(t, StepMined, transitions[5].state)
}

func TestLockAndDrawUnknownIlkFailsFast(t *testing.T) {
	f := newManagerFixture(true)

	_, err := f.manager.LockAndDraw(LockRequest{IlkSymbol: "DOGE-A"})
	require.Error(t, err)
	var unsupported *UnsupportedCollateralError
	assert.True(t, errors.As(err, &unsupported))
	assert.Empty(t, f.backend.lockCalls)
}

func TestLockAndDrawRevertReachesCaller(t *testing.T) {
	f := newManagerFixture(true)
	f.backend.lockWaitErr = &ContractRevertError{TxHash: "0xdead"}

	op, err := f.manager.LockAndDraw(LockRequest{
		IlkSymbol: "ETH-A",
		Lock:      big.NewInt(1e18),
	})
	require.NoError(t, err)

	_, err = op.Run()
	require.Error(t, err)
	var revert *ContractRevertError
	require.True(t, errors.As(err, &revert))
	assert.Equal(t, "0xdead", revert.TxHash)
}

func TestEnsureProxyBuildsOnce(t *testing.T) {
	f := newManagerFixture(false)

	proxy, err := f.manager.EnsureProxy()
	require.NoError(t, err)
	assert.Equal(t, f.chain.proxy, proxy)
	assert.Equal(t, 1, f.backend.buildProxyCalls)

	again, err := f.manager.EnsureProxy()
	require.NoError(t, err)
	assert.Equal(t, proxy, again)
	assert.Equal(t, 1, f.backend.buildProxyCalls)
}

func TestPositionsWithoutProxyIsEmpty(t *testing.T) {
	f := newManagerFixture(false)

	positions, err := f.manager.Positions()
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestCombinedDebtValueSumsAllPositions(t *testing.T) {
	f := newManagerFixture(true)
	a := f.chain.addCdp("ETH-A")
	b := f.chain.addCdp("BAT-A")
	f.chain.setDebt("ETH-A", f.chain.urnOf[a], big.NewInt(5e18))
	f.chain.setDebt("BAT-A", f.chain.urnOf[b], big.NewInt(7e18))

	total, err := f.manager.CombinedDebtValue()
	require.NoError(t, err)
	assert.Equal(t, DebtCurrency, total.Currency)
	assert.Equal(t, 0, total.Value.Cmp(new(big.Int).SetUint64(12e18)))
}

func TestCombinedDebtValueOfNoPositionsIsZero(t *testing.T) {
	f := newManagerFixture(true)

	total, err := f.manager.CombinedDebtValue()
	require.NoError(t, err)
	assert.Equal(t, DebtCurrency, total.Currency)
	assert.True(t, total.IsZero())
}

func TestDebtOf(t *testing.T) {
	f := newManagerFixture(true)
	id := f.chain.addCdp("ETH-A")
	f.chain.setDebt("ETH-A", f.chain.urnOf[id], big.NewInt(9e18))

	debt, err := f.manager.DebtOf(id)
	require.NoError(t, err)
	assert.Equal(t, 0, debt.Value.Cmp(big.NewInt(9e18)))
}

func TestFreeCollateralUnknownCdpFailsFast(t *testing.T) {
	f := newManagerFixture(true)

	_, err := f.manager.FreeCollateral(99, big.NewInt(1))
	require.Error(t, err)
	var notFound *CdpNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, 0, f.backend.freeCalls)
}

// Ownership is not checked locally, a withdrawal from somebody else's
// cdp fails with the chain's own revert.
func TestFreeCollateralRevertIsPropagated(t *testing.T) {
	f := newManagerFixture(true)
	id := f.chain.addCdp("ETH-A")
	f.backend.freeWaitErr = &ContractRevertError{TxHash: "0xbeef"}

	op, err := f.manager.FreeCollateral(id, big.NewInt(1e18))
	require.NoError(t, err)

	_, err = op.Run()
	require.Error(t, err)
	var revert *ContractRevertError
	require.True(t, errors.As(err, &revert))
	assert.Equal(t, "0xbeef", revert.TxHash)
	assert.Equal(t, 1, f.backend.freeCalls)
}

func TestOpenCreatesEmptyCdp(t *testing.T) {
	f := newManagerFixture(false)

	op, err := f.manager.Open("ETH-A")
	require.NoError(t, err)

	pos, err := op.Run()
	require.NoError(t, err)
	assert.Equal(t, "ETH-A", pos.Ilk)
	assert.Equal(t, 1, f.backend.buildProxyCalls)
	assert.Equal(t, 1, f.backend.openCalls)
	assert.Empty(t, f.backend.lockCalls)
}

func TestLockAndDrawWithSkippedSettleReturnsNoPosition(t *testing.T) {
	f := newManagerFixture(true)
	f.manager.SkipSettle()

	op, err := f.manager.LockAndDraw(LockRequest{
		IlkSymbol: "ETH-A",
		Lock:      big.NewInt(1e18),
	})
	require.NoError(t, err)

	// the lock tx is still submitted, but the operation resolves without
	// reading the position back
	pos, err := op.Run()
	require.NoError(t, err)
	assert.Nil(t, pos)
	require.Len(t, f.backend.lockCalls, 1)
}

func TestOpenWithSkippedSettleReturnsNoPosition(t *testing.T) {
	f := newManagerFixture(true)
	f.manager.SkipSettle()

	op, err := f.manager.Open("ETH-A")
	require.NoError(t, err)

	pos, err := op.Run()
	require.NoError(t, err)
	assert.Nil(t, pos)
	assert.Equal(t, 1, f.backend.openCalls)
}

func TestCombinedEventHistoryMergesAndTagsCurrencies(t *testing.T) {
	f := newManagerFixture(true)
	a := f.chain.addCdp("ETH-A")
	b := f.chain.addCdp("BAT-A")
	now := time.Now()
	f.query.events = []RawEvent{
		{Ilk: "BAT-A", Type: "lock", Amount: big.NewInt(10), Timestamp: now.Add(-time.Hour), TxHash: "0x1"},
		{Ilk: "ETH-A", Type: "draw", Amount: big.NewInt(20), Timestamp: now, TxHash: "0x2"},
	}

	events, err := f.manager.CombinedEventHistory()
	require.NoError(t, err)

	// one (ilk, urn) pair per position, in position order
	require.Len(t, f.query.gotPairs, 2)
	assert.Equal(t, IlkUrn{Ilk: "ETH-A", Urn: f.chain.urnOf[a]}, f.query.gotPairs[0])
	assert.Equal(t, IlkUrn{Ilk: "BAT-A", Urn: f.chain.urnOf[b]}, f.query.gotPairs[1])

	// indexer order is preserved, currencies come from the ilk table
	require.Len(t, events, 2)
	assert.Equal(t, "BAT", events[0].Currency)
	assert.Equal(t, "ETH", events[1].Currency)
	assert.Equal(t, "0x1", events[0].TxHash)
}
