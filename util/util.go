package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vaultis/vaultis/networks"
	"github.com/vaultis/vaultis/util/broadcaster"
	"github.com/vaultis/vaultis/util/monitor"
	"github.com/vaultis/vaultis/util/reader"
)

// NodeURLs returns the node set for a network, preferring the env var
// override when it is set.
func NodeURLs(network networks.Network) map[string]string {
	custom := strings.Trim(os.Getenv(network.GetNodeVariableName()), " ")
	if custom != "" {
		return map[string]string{"custom-node": custom}
	}
	return network.GetDefaultNodes()
}

func EthReader(network networks.Network) (*reader.EthReader, error) {
	nodes := NodeURLs(network)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes are configured for network %s", network.GetName())
	}
	return reader.NewEthReaderGeneric(nodes, network), nil
}

func EthBroadcaster(network networks.Network) (*broadcaster.Broadcaster, error) {
	nodes := NodeURLs(network)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes are configured for network %s", network.GetName())
	}
	return broadcaster.NewGenericBroadcaster(nodes), nil
}

func EthTxMonitor(network networks.Network) (*monitor.TxMonitor, error) {
	r, err := EthReader(network)
	if err != nil {
		return nil, err
	}
	return monitor.NewGenericTxMonitor(r), nil
}

func ScanForAddresses(para string) []string {
	re := regexp.MustCompile("0x[0-9a-fA-F]{40}([^0-9a-fA-F]|$)")
	result := re.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	for i := 0; i < len(result); i++ {
		result[i] = result[i][0:42]
	}
	return result
}

func IsAddress(addr string) bool {
	re := regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
	return re.MatchString(strings.Trim(addr, " "))
}

// PathToAddress extracts an ethereum address from a file path, used to map
// account record files back to their addresses.
func PathToAddress(path string) (string, error) {
	addresses := ScanForAddresses(filepath.Base(path))
	if len(addresses) == 0 {
		return "", fmt.Errorf("path doesn't contain any address")
	}
	return addresses[0], nil
}
