package cdp

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// DebtCurrency is the stable currency every debt figure is denominated
// in.
const DebtCurrency = "DAI"

// LockRequest describes one lock-and-draw action.
type LockRequest struct {
	IlkSymbol string
	// CdpID is the existing cdp to top up, 0 opens a new one.
	CdpID uint64
	// Lock is the collateral amount in the ilk's smallest unit, wei for
	// ether backed ilks.
	Lock *big.Int
	// Draw is the dai amount to draw, in dai wei.
	Draw *big.Int
}

// Manager is the entry point for cdp operations of one account. It
// resolves the account's proxy, dispatches actions to the right proxy
// actions method, interposes the bag indirection where the collateral
// needs it and reports multi step progress through Operations.
type Manager struct {
	owner    common.Address
	ledger   Ledger
	backend  TxBackend
	query    QueryService
	ilks     *IlkTable
	registry *Registry
	bags     *BagResolver

	skipSettle bool
}

func NewManager(
	owner common.Address,
	ledger Ledger,
	backend TxBackend,
	query QueryService,
	ilks *IlkTable,
) *Manager {
	return &Manager{
		owner:    owner,
		ledger:   ledger,
		backend:  backend,
		query:    query,
		ilks:     ilks,
		registry: NewRegistry(ledger),
		bags:     NewBagResolver(ledger, backend),
	}
}

// SkipSettle makes operations finish as soon as their last step is
// submitted, with a nil position. Meant for callers that don't wait for
// txs to be mined: the resulting cdp isn't on chain yet, so reading it
// back would fail spuriously.
func (m *Manager) SkipSettle() {
	m.skipSettle = true
}

// settleWith drops the settle callback when settling is skipped.
func (m *Manager) settleWith(settle func() (*Position, error)) func() (*Position, error) {
	if m.skipSettle {
		return nil
	}
	return settle
}

func (m *Manager) Owner() common.Address {
	return m.owner
}

func (m *Manager) Ilks() *IlkTable {
	return m.ilks
}

func (m *Manager) Registry() *Registry {
	return m.registry
}

func (m *Manager) Bags() *BagResolver {
	return m.bags
}

// CurrentProxy returns the account's proxy. found is false when no
// proxy has been built yet.
func (m *Manager) CurrentProxy() (common.Address, bool, error) {
	proxy, err := m.ledger.ProxyOf(m.owner)
	if err != nil {
		return common.Address{}, false, err
	}
	if proxy == (common.Address{}) {
		return common.Address{}, false, nil
	}
	return proxy, true, nil
}

func (m *Manager) requireProxy() (common.Address, error) {
	proxy, found, err := m.CurrentProxy()
	if err != nil {
		return common.Address{}, err
	}
	if !found {
		return common.Address{}, fmt.Errorf("account %s has no proxy", m.owner.Hex())
	}
	return proxy, nil
}

// EnsureProxy returns the account's proxy, building one first when none
// exists yet.
func (m *Manager) EnsureProxy() (common.Address, error) {
	proxy, found, err := m.CurrentProxy()
	if err != nil {
		return common.Address{}, err
	}
	if found {
		return proxy, nil
	}
	op := newOperation([]step{m.buildProxyStep()}, nil)
	if _, err = op.Run(); err != nil {
		return common.Address{}, err
	}
	return m.requireProxy()
}

// buildProxyStep registers a proxy for the account. It re-probes right
// before submitting so a proxy built in the meantime is reused instead
// of attempted twice.
func (m *Manager) buildProxyStep() step {
	return step{
		contract: "ProxyRegistry",
		method:   "build",
		run: func(pending func(hash string)) error {
			proxy, found, err := m.CurrentProxy()
			if err != nil {
				return err
			}
			if found {
				zap.S().Debugw("proxy already exists, skipping build", "proxy", proxy.Hex())
				return nil
			}
			tx, err := m.backend.BuildProxy()
			if err != nil {
				return err
			}
			pending(tx.Hash())
			return tx.Wait()
		},
	}
}

// Positions returns the account's cdps in creation order, reading
// through the registry cache. An account without a proxy has no
// positions.
func (m *Manager) Positions() ([]Position, error) {
	proxy, found, err := m.CurrentProxy()
	if err != nil {
		return nil, err
	}
	if !found {
		return []Position{}, nil
	}
	return m.registry.CdpIds(proxy)
}

// Cdp resolves a single position by id, without going through the per
// proxy cache.
func (m *Manager) Cdp(id uint64) (Position, common.Address, error) {
	return m.registry.Cdp(id)
}

// DebtOf returns the outstanding debt of one cdp, in dai.
func (m *Manager) DebtOf(cdpID uint64) (Amount, error) {
	urn, err := m.ledger.CdpUrn(cdpID)
	if err != nil {
		return Amount{}, fmt.Errorf("couldn't read urn of cdp %d: %w", cdpID, err)
	}
	ilk, err := m.ledger.CdpIlk(cdpID)
	if err != nil {
		return Amount{}, fmt.Errorf("couldn't read ilk of cdp %d: %w", cdpID, err)
	}
	debt, err := m.ledger.UrnDebt(ilk, urn)
	if err != nil {
		return Amount{}, fmt.Errorf("couldn't read debt of cdp %d: %w", cdpID, err)
	}
	return NewAmount(DebtCurrency, debt), nil
}

// CombinedDebtValue sums the outstanding debt of every position the
// account owns, in dai. Zero positions sum to the zero amount.
func (m *Manager) CombinedDebtValue() (Amount, error) {
	positions, err := m.Positions()
	if err != nil {
		return Amount{}, err
	}
	total := ZeroAmount(DebtCurrency)
	for _, p := range positions {
		urn, err := m.ledger.CdpUrn(p.ID)
		if err != nil {
			return Amount{}, fmt.Errorf("couldn't read urn of cdp %d: %w", p.ID, err)
		}
		debt, err := m.ledger.UrnDebt(p.Ilk, urn)
		if err != nil {
			return Amount{}, fmt.Errorf("couldn't read debt of cdp %d: %w", p.ID, err)
		}
		total, err = total.Add(NewAmount(DebtCurrency, debt))
		if err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// CombinedEventHistory returns the account's cdp events across all of
// its positions, normalized with each ilk's currency. The indexer's
// ordering is preserved.
func (m *Manager) CombinedEventHistory() ([]Event, error) {
	positions, err := m.Positions()
	if err != nil {
		return nil, err
	}
	pairs := make([]IlkUrn, 0, len(positions))
	for _, p := range positions {
		urn, err := m.ledger.CdpUrn(p.ID)
		if err != nil {
			return nil, fmt.Errorf("couldn't read urn of cdp %d: %w", p.ID, err)
		}
		pairs = append(pairs, IlkUrn{Ilk: p.Ilk, Urn: urn})
	}
	raw, err := m.query.CdpEvents(pairs)
	if err != nil {
		return nil, err
	}
	return normalizeEvents(raw, m.ilks)
}

// LockAndDraw plans the composite operation for a lock-and-draw
// request: proxy build when the account has none, bag creation and
// funding when the collateral needs the indirection, then the resolved
// proxy actions call. The returned operation hasn't started, subscribe
// to it before calling Start or Run.
func (m *Manager) LockAndDraw(req LockRequest) (*Operation, error) {
	ilk, err := m.ilks.Get(req.IlkSymbol)
	if err != nil {
		return nil, err
	}
	method := SelectLockMethod(ilk.IsEther, req.CdpID != 0)
	lock := req.Lock
	if lock == nil {
		lock = big.NewInt(0)
	}
	draw := req.Draw
	if draw == nil {
		draw = big.NewInt(0)
	}
	zap.S().Debugw("planned lock and draw",
		"ilk", ilk.Symbol,
		"method", method.String(),
		"cdp", req.CdpID,
		"lock", lock.String(),
		"draw", draw.String(),
	)

	steps := []step{}
	_, hasProxy, err := m.CurrentProxy()
	if err != nil {
		return nil, err
	}
	if !hasProxy {
		steps = append(steps, m.buildProxyStep())
	}
	if ilk.RequiresBag && !ilk.IsEther {
		steps = append(steps,
			step{
				contract: "GemJoin",
				method:   "make",
				run: func(pending func(hash string)) error {
					proxy, err := m.requireProxy()
					if err != nil {
						return err
					}
					_, err = m.bags.EnsureBag(proxy, ilk, pending)
					return err
				},
			},
			step{
				contract: ilk.Currency,
				method:   "transfer",
				run: func(pending func(hash string)) error {
					proxy, err := m.requireProxy()
					if err != nil {
						return err
					}
					_, err = m.bags.TransferToBag(
						NewAmount(ilk.Currency, lock), proxy, ilk, pending,
					)
					return err
				},
			},
		)
	}
	steps = append(steps, step{
		contract: "ProxyActions",
		method:   method.String(),
		run: func(pending func(hash string)) error {
			proxy, err := m.requireProxy()
			if err != nil {
				return err
			}
			tx, err := m.backend.LockAndDraw(proxy, method, ilk, req.CdpID, lock, draw)
			if err != nil {
				return err
			}
			pending(tx.Hash())
			return tx.Wait()
		},
	})

	return newOperation(steps, m.settleWith(func() (*Position, error) {
		return m.settleLock(req, method)
	})), nil
}

// settleLock resolves the operation's final position after the last
// step is mined. The registry entry is refreshed first so follow up
// queries see the new state.
func (m *Manager) settleLock(req LockRequest, method LockMethod) (*Position, error) {
	proxy, err := m.requireProxy()
	if err != nil {
		return nil, err
	}
	m.registry.Invalidate(proxy)
	positions, err := m.registry.CdpIds(proxy)
	if err != nil {
		return nil, err
	}
	if method.OpensCdp() {
		if len(positions) == 0 {
			return nil, fmt.Errorf("no cdp showed up for proxy %s after opening", proxy.Hex())
		}
		p := positions[len(positions)-1]
		return &p, nil
	}
	for _, p := range positions {
		if p.ID == req.CdpID {
			return &p, nil
		}
	}
	return nil, &CdpNotFoundError{ID: req.CdpID}
}

// FreeCollateral plans an operation withdrawing amount of collateral
// from the cdp back to the account. Ownership isn't checked locally,
// withdrawing from a cdp the account doesn't own reverts on chain and
// the revert is propagated as is.
func (m *Manager) FreeCollateral(cdpID uint64, amount *big.Int) (*Operation, error) {
	position, _, err := m.registry.Cdp(cdpID)
	if err != nil {
		return nil, err
	}
	ilk, err := m.ilks.Get(position.Ilk)
	if err != nil {
		return nil, err
	}
	proxy, err := m.requireProxy()
	if err != nil {
		return nil, err
	}

	method := "freeGem"
	if ilk.IsEther {
		method = "freeETH"
	}
	steps := []step{{
		contract: "ProxyActions",
		method:   method,
		run: func(pending func(hash string)) error {
			tx, err := m.backend.FreeCollateral(proxy, ilk, cdpID, amount)
			if err != nil {
				return err
			}
			pending(tx.Hash())
			return tx.Wait()
		},
	}}
	return newOperation(steps, func() (*Position, error) {
		return &position, nil
	}), nil
}

// Open plans an operation creating an empty cdp for the collateral
// type, without locking or drawing anything.
func (m *Manager) Open(ilkSymbol string) (*Operation, error) {
	ilk, err := m.ilks.Get(ilkSymbol)
	if err != nil {
		return nil, err
	}

	steps := []step{}
	_, hasProxy, err := m.CurrentProxy()
	if err != nil {
		return nil, err
	}
	if !hasProxy {
		steps = append(steps, m.buildProxyStep())
	}
	steps = append(steps, step{
		contract: "ProxyActions",
		method:   "open",
		run: func(pending func(hash string)) error {
			proxy, err := m.requireProxy()
			if err != nil {
				return err
			}
			tx, err := m.backend.Open(proxy, ilk)
			if err != nil {
				return err
			}
			pending(tx.Hash())
			return tx.Wait()
		},
	})
	return newOperation(steps, m.settleWith(func() (*Position, error) {
		proxy, err := m.requireProxy()
		if err != nil {
			return nil, err
		}
		m.registry.Invalidate(proxy)
		positions, err := m.registry.CdpIds(proxy)
		if err != nil {
			return nil, err
		}
		if len(positions) == 0 {
			return nil, fmt.Errorf("no cdp showed up for proxy %s after opening", proxy.Hex())
		}
		p := positions[len(positions)-1]
		return &p, nil
	})), nil
}
