package common

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var Start time.Time

func mustABI(body string) *abi.ABI {
	result, err := abi.JSON(strings.NewReader(body))
	if err != nil {
		panic(err)
	}
	return &result
}

var (
	parsedERC20ABI         = mustABI(erc20abi)
	parsedDSProxyABI       = mustABI(dsproxyabi)
	parsedProxyRegistryABI = mustABI(proxyregistryabi)
	parsedCdpManagerABI    = mustABI(cdpmanagerabi)
	parsedVatABI           = mustABI(vatabi)
	parsedGemJoinABI       = mustABI(gemjoinabi)
	parsedProxyActionsABI  = mustABI(proxyactionsabi)
)

func GetERC20ABI() *abi.ABI {
	return parsedERC20ABI
}

func GetDSProxyABI() *abi.ABI {
	return parsedDSProxyABI
}

func GetProxyRegistryABI() *abi.ABI {
	return parsedProxyRegistryABI
}

func GetCdpManagerABI() *abi.ABI {
	return parsedCdpManagerABI
}

func GetVatABI() *abi.ABI {
	return parsedVatABI
}

// GetGemJoinABI covers plain join adapters and the bag flavor (bags/make)
// used by non-standard tokens.
func GetGemJoinABI() *abi.ABI {
	return parsedGemJoinABI
}

func GetProxyActionsABI() *abi.ABI {
	return parsedProxyActionsABI
}

func PackERC20Data(function string, params ...interface{}) ([]byte, error) {
	return GetERC20ABI().Pack(function, params...)
}

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

func HexToAddresses(hexes []string) []common.Address {
	result := []common.Address{}
	for _, h := range hexes {
		result = append(result, common.HexToAddress(h))
	}
	return result
}

func HexToHash(hex string) common.Hash {
	return common.HexToHash(hex)
}

// IlkToBytes32 encodes an ilk symbol like "ETH-A" the way the Maker
// contracts expect: ascii bytes, right padded with zeros.
func IlkToBytes32(symbol string) [32]byte {
	var result [32]byte
	copy(result[:], symbol)
	return result
}

func Bytes32ToIlk(b [32]byte) string {
	return strings.TrimRight(string(b[:]), "\x00")
}
