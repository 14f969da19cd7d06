package util

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vaultis/vaultis/cdp"
	"github.com/vaultis/vaultis/config"
	"github.com/vaultis/vaultis/networks"
	"github.com/vaultis/vaultis/util/cache"
)

// event indexer endpoints per chain id
var eventAPIDomains = map[int64]string{
	1:  "https://events.vaultis.dev",
	42: "https://kovan-events.vaultis.dev",
}

// cachedLedger remembers resolved proxy addresses across runs. A proxy
// never moves once built so only positive answers are cached.
type cachedLedger struct {
	cdp.Ledger
	chainID int64
}

func (l *cachedLedger) ProxyOf(owner common.Address) (common.Address, error) {
	key := fmt.Sprintf("proxy-%d-%s", l.chainID, owner.Hex())
	if cached, found := cache.GetCache(key); found {
		return common.HexToAddress(cached), nil
	}
	proxy, err := l.Ledger.ProxyOf(owner)
	if err != nil {
		return common.Address{}, err
	}
	if proxy != (common.Address{}) {
		cache.SetCache(key, proxy.Hex())
	}
	return proxy, nil
}

// noWaiter reports every tx as settled immediately, used with --no-wait.
type noWaiter struct{}

func (noWaiter) Wait(hash string) error {
	return nil
}

// CdpManager assembles a chain backed cdp manager for the wallet on the
// current network.
func CdpManager(cm *ContextManager, wallet common.Address) (*cdp.Manager, error) {
	network := networks.CurrentNetwork()
	deploy, err := cdp.DeploymentByChainID(network.GetChainID())
	if err != nil {
		return nil, err
	}

	ledger := &cachedLedger{
		Ledger:  cdp.NewChainLedger(cm.Reader(network), deploy),
		chainID: network.GetChainID(),
	}
	var waiter cdp.TxWaiter = cdp.NewChainWaiter(cm.Monitor(network), cm.Reader(network))
	if config.DontWaitToBeMined {
		waiter = noWaiter{}
	}
	backend := cdp.NewChainBackend(NewSender(cm, wallet, network), waiter, deploy)

	domain, found := eventAPIDomains[network.GetChainID()]
	if !found {
		return nil, fmt.Errorf("no event indexer is known for network %s", network.GetName())
	}
	query := cdp.NewHTTPQueryService(domain)

	m := cdp.NewManager(wallet, ledger, backend, query, deploy.Ilks)
	if config.DontWaitToBeMined {
		m.SkipSettle()
	}
	return m, nil
}
