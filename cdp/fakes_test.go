package cdp

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

func testAddr(n int64) common.Address {
	return common.BigToAddress(big.NewInt(n))
}

// minedTx is a transaction the fake chain accepted. Wait returns waitErr
// so reverts can be simulated.
type minedTx struct {
	hash    string
	waitErr error
}

func (t minedTx) Hash() string { return t.hash }
func (t minedTx) Wait() error  { return t.waitErr }

// fakeChain is the shared state behind fakeLedger and fakeBackend, so a
// transaction submitted through the backend becomes visible to the next
// ledger read, the way the real chain behaves between blocks.
type fakeChain struct {
	mu sync.Mutex

	owner common.Address
	proxy common.Address

	nextID  uint64
	cdps    []uint64
	ilkOf   map[uint64]string
	urnOf   map[uint64]common.Address
	ownerOf map[uint64]common.Address
	debts   map[string]*big.Int
	bags    map[bagKey]common.Address
	// token -> holder -> balance
	balances map[common.Address]map[common.Address]*big.Int

	txSeq int
}

func newFakeChain(owner common.Address) *fakeChain {
	return &fakeChain{
		owner:    owner,
		nextID:   1,
		ilkOf:    map[uint64]string{},
		urnOf:    map[uint64]common.Address{},
		ownerOf:  map[uint64]common.Address{},
		debts:    map[string]*big.Int{},
		bags:     map[bagKey]common.Address{},
		balances: map[common.Address]map[common.Address]*big.Int{},
	}
}

// addCdp registers a cdp for the chain's proxy and returns its id. Ids
// are handed out in creation order, matching the manager contract's
// list.
func (c *fakeChain) addCdp(ilk string) uint64 {
	id := c.nextID
	c.nextID++
	c.cdps = append(c.cdps, id)
	c.ilkOf[id] = ilk
	c.urnOf[id] = testAddr(int64(0x1000 + id))
	c.ownerOf[id] = c.proxy
	return id
}

func debtKey(ilk string, urn common.Address) string {
	return ilk + "|" + urn.Hex()
}

func (c *fakeChain) setDebt(ilk string, urn common.Address, dai *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debts[debtKey(ilk, urn)] = dai
}

func (c *fakeChain) balanceOf(token, holder common.Address) *big.Int {
	holders, found := c.balances[token]
	if !found {
		return big.NewInt(0)
	}
	balance, found := holders[holder]
	if !found {
		return big.NewInt(0)
	}
	return balance
}

func (c *fakeChain) credit(token, holder common.Address, amount *big.Int) {
	if _, found := c.balances[token]; !found {
		c.balances[token] = map[common.Address]*big.Int{}
	}
	c.balances[token][holder] = new(big.Int).Add(c.balanceOf(token, holder), amount)
}

type fakeLedger struct {
	chain *fakeChain

	// nextOverride, when set, replaces the chain's list walk to simulate
	// corrupted list pointers.
	nextOverride map[uint64]uint64

	proxyOfCalls int
	countCalls   int
	bagOfCalls   int
}

func (l *fakeLedger) ProxyOf(owner common.Address) (common.Address, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	l.proxyOfCalls++
	if owner != l.chain.owner {
		return common.Address{}, nil
	}
	return l.chain.proxy, nil
}

func (l *fakeLedger) CdpCount(proxy common.Address) (uint64, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	l.countCalls++
	if proxy != l.chain.proxy {
		return 0, nil
	}
	return uint64(len(l.chain.cdps)), nil
}

func (l *fakeLedger) FirstCdp(proxy common.Address) (uint64, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	if proxy != l.chain.proxy || len(l.chain.cdps) == 0 {
		return 0, nil
	}
	return l.chain.cdps[0], nil
}

func (l *fakeLedger) NextCdp(id uint64) (uint64, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	if l.nextOverride != nil {
		return l.nextOverride[id], nil
	}
	for i, cdp := range l.chain.cdps {
		if cdp == id && i+1 < len(l.chain.cdps) {
			return l.chain.cdps[i+1], nil
		}
	}
	return 0, nil
}

func (l *fakeLedger) CdpIlk(id uint64) (string, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	return l.chain.ilkOf[id], nil
}

func (l *fakeLedger) CdpUrn(id uint64) (common.Address, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	return l.chain.urnOf[id], nil
}

func (l *fakeLedger) CdpOwner(id uint64) (common.Address, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	return l.chain.ownerOf[id], nil
}

func (l *fakeLedger) UrnDebt(ilk string, urn common.Address) (*big.Int, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	debt, found := l.chain.debts[debtKey(ilk, urn)]
	if !found {
		return big.NewInt(0), nil
	}
	return debt, nil
}

func (l *fakeLedger) BagOf(proxy common.Address, adapter common.Address) (common.Address, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	l.bagOfCalls++
	return l.chain.bags[bagKey{proxy: proxy, adapter: adapter}], nil
}

func (l *fakeLedger) TokenBalance(token common.Address, holder common.Address) (*big.Int, error) {
	l.chain.mu.Lock()
	defer l.chain.mu.Unlock()
	return l.chain.balanceOf(token, holder), nil
}

type lockCall struct {
	method LockMethod
	ilk    string
	cdpID  uint64
	lock   *big.Int
	draw   *big.Int
}

type fakeBackend struct {
	chain *fakeChain

	buildProxyCalls int
	createBagCalls  int
	transferCalls   int
	openCalls       int
	freeCalls       int
	lockCalls       []lockCall

	createBagErr error
	lockWaitErr  error
	freeWaitErr  error
}

func (b *fakeBackend) tx(kind string) minedTx {
	b.chain.txSeq++
	return minedTx{hash: fmt.Sprintf("0x%s%04d", kind, b.chain.txSeq)}
}

func (b *fakeBackend) BuildProxy() (PendingTx, error) {
	b.chain.mu.Lock()
	defer b.chain.mu.Unlock()
	b.buildProxyCalls++
	b.chain.proxy = testAddr(0xaaaa)
	return b.tx("bld"), nil
}

func (b *fakeBackend) CreateBag(proxy common.Address, join common.Address) (PendingTx, error) {
	b.chain.mu.Lock()
	defer b.chain.mu.Unlock()
	if b.createBagErr != nil {
		return nil, b.createBagErr
	}
	b.createBagCalls++
	b.chain.bags[bagKey{proxy: proxy, adapter: join}] = testAddr(int64(0xbb00 + b.createBagCalls))
	return b.tx("bag"), nil
}

func (b *fakeBackend) TransferToBag(token common.Address, bag common.Address, amount *big.Int) (PendingTx, error) {
	b.chain.mu.Lock()
	defer b.chain.mu.Unlock()
	b.transferCalls++
	b.chain.credit(token, bag, amount)
	return b.tx("trf"), nil
}

func (b *fakeBackend) Open(proxy common.Address, ilk Ilk) (PendingTx, error) {
	b.chain.mu.Lock()
	defer b.chain.mu.Unlock()
	b.openCalls++
	b.chain.addCdp(ilk.Symbol)
	return b.tx("opn"), nil
}

func (b *fakeBackend) LockAndDraw(proxy common.Address, method LockMethod, ilk Ilk, cdpID uint64, lock *big.Int, draw *big.Int) (PendingTx, error) {
	b.chain.mu.Lock()
	defer b.chain.mu.Unlock()
	b.lockCalls = append(b.lockCalls, lockCall{
		method: method,
		ilk:    ilk.Symbol,
		cdpID:  cdpID,
		lock:   lock,
		draw:   draw,
	})
	tx := b.tx("lck")
	if b.lockWaitErr != nil {
		tx.waitErr = b.lockWaitErr
		return tx, nil
	}
	if method.OpensCdp() {
		b.chain.addCdp(ilk.Symbol)
	}
	return tx, nil
}

func (b *fakeBackend) FreeCollateral(proxy common.Address, ilk Ilk, cdpID uint64, amount *big.Int) (PendingTx, error) {
	b.chain.mu.Lock()
	defer b.chain.mu.Unlock()
	b.freeCalls++
	tx := b.tx("fre")
	tx.waitErr = b.freeWaitErr
	return tx, nil
}

type fakeQuery struct {
	events []RawEvent
	err    error

	gotPairs []IlkUrn
}

func (q *fakeQuery) CdpEvents(pairs []IlkUrn) ([]RawEvent, error) {
	q.gotPairs = pairs
	if q.err != nil {
		return nil, q.err
	}
	return q.events, nil
}

// testIlks covers the three collateral shapes the manager dispatches
// on: ether, a plain token and a token needing the bag indirection.
func testIlks() *IlkTable {
	return NewIlkTable(
		Ilk{
			Symbol:    "ETH-A",
			Currency:  "ETH",
			IsEther:   true,
			Precision: BaseUnit,
			Join:      testAddr(0x11),
		},
		Ilk{
			Symbol:    "BAT-A",
			Currency:  "BAT",
			Precision: 18,
			Gem:       testAddr(0x21),
			Join:      testAddr(0x22),
		},
		Ilk{
			Symbol:      "GNT-A",
			Currency:    "GNT",
			Precision:   18,
			Gem:         testAddr(0x31),
			Join:        testAddr(0x32),
			RequiresBag: true,
		},
	)
}
