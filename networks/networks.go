package networks

import (
	"fmt"
	"strings"
	"sync"
)

var NetworkString string

var (
	cachedNetwork Network
	mu            sync.Mutex
)

var supportedNetworks = []Network{
	EthereumMainnet,
	Kovan,
}

func GetSupportedNetworks() []Network {
	return supportedNetworks
}

func GetNetwork(name string) (Network, error) {
	name = strings.ToLower(strings.Trim(name, " "))
	for _, n := range supportedNetworks {
		if n.GetName() == name {
			return n, nil
		}
		for _, alt := range n.GetAlternativeNames() {
			if strings.ToLower(alt) == name {
				return n, nil
			}
		}
	}
	return nil, fmt.Errorf("'%s' is not a supported network", name)
}

func GetNetworkByID(chainID uint64) (Network, error) {
	for _, n := range supportedNetworks {
		if uint64(n.GetChainID()) == chainID {
			return n, nil
		}
	}
	return nil, fmt.Errorf("chain id %d is not a supported network", chainID)
}

func CurrentNetwork() Network {
	if cachedNetwork != nil {
		return cachedNetwork
	}

	SetNetwork(NetworkString)

	return cachedNetwork
}

func SetNetwork(networkStr string) {
	mu.Lock()
	defer mu.Unlock()

	var err error

	cachedNetwork, err = GetNetwork(networkStr)
	if err != nil {
		cachedNetwork = EthereumMainnet
	}
}
