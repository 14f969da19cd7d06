package cdp

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry caches which positions each proxy owns. The first CdpIds call
// per proxy walks the manager contract's cdp list, later calls answer
// from the cache until Reset. Reads and the fill are guarded so a
// concurrent reader observes either the previous list or the new one,
// never a half built slice.
type Registry struct {
	mu        sync.RWMutex
	ledger    Ledger
	positions map[common.Address][]Position
}

func NewRegistry(ledger Ledger) *Registry {
	return &Registry{
		ledger:    ledger,
		positions: map[common.Address][]Position{},
	}
}

func (r *Registry) cached(proxy common.Address) ([]Position, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	positions, found := r.positions[proxy]
	return positions, found
}

// CdpIds returns the positions owned by proxy in creation order. An
// empty list is a valid, cacheable answer.
func (r *Registry) CdpIds(proxy common.Address) ([]Position, error) {
	if positions, found := r.cached(proxy); found {
		return positions, nil
	}

	positions, err := r.fetch(proxy)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.positions[proxy] = positions
	r.mu.Unlock()
	return positions, nil
}

// fetch walks the manager's linked list of cdps. first points at the
// oldest cdp, following next yields them in creation order.
func (r *Registry) fetch(proxy common.Address) ([]Position, error) {
	count, err := r.ledger.CdpCount(proxy)
	if err != nil {
		return nil, fmt.Errorf("couldn't read cdp count of %s: %w", proxy.Hex(), err)
	}
	positions := []Position{}
	if count == 0 {
		return positions, nil
	}

	id, err := r.ledger.FirstCdp(proxy)
	if err != nil {
		return nil, fmt.Errorf("couldn't read first cdp of %s: %w", proxy.Hex(), err)
	}
	for id != 0 {
		ilk, err := r.ledger.CdpIlk(id)
		if err != nil {
			return nil, fmt.Errorf("couldn't read ilk of cdp %d: %w", id, err)
		}
		positions = append(positions, Position{ID: id, Ilk: ilk})
		if uint64(len(positions)) > count {
			return nil, fmt.Errorf(
				"cdp list of %s is longer than its count %d, inconsistent chain data",
				proxy.Hex(), count,
			)
		}
		id, err = r.ledger.NextCdp(id)
		if err != nil {
			return nil, fmt.Errorf("couldn't walk cdp list of %s: %w", proxy.Hex(), err)
		}
	}
	return positions, nil
}

// Reset drops the whole cache. The next CdpIds call per proxy re-fetches
// from the chain.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = map[common.Address][]Position{}
}

// Invalidate drops a single proxy's entry, keeping the others cached.
func (r *Registry) Invalidate(proxy common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.positions, proxy)
}

// Cdp resolves a single position by id without touching the per proxy
// cache. Ids the chain doesn't know fail with *CdpNotFoundError.
func (r *Registry) Cdp(id uint64) (Position, common.Address, error) {
	owner, err := r.ledger.CdpOwner(id)
	if err != nil {
		return Position{}, common.Address{}, fmt.Errorf("couldn't read owner of cdp %d: %w", id, err)
	}
	if owner == (common.Address{}) {
		return Position{}, common.Address{}, &CdpNotFoundError{ID: id}
	}
	ilk, err := r.ledger.CdpIlk(id)
	if err != nil {
		return Position{}, common.Address{}, fmt.Errorf("couldn't read ilk of cdp %d: %w", id, err)
	}
	return Position{ID: id, Ilk: ilk}, owner, nil
}
