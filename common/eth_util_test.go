package common

import (
	"encoding/hex"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIlkBytes32RoundTrip(t *testing.T) {
	for _, symbol := range []string{"ETH-A", "BAT-A", "USDC-A", "GNT-A"} {
		encoded := IlkToBytes32(symbol)
		assert.Equal(t, symbol, Bytes32ToIlk(encoded))
	}
}

func TestIlkToBytes32Padding(t *testing.T) {
	encoded := IlkToBytes32("ETH-A")
	assert.Equal(t, "ETH-A", string(encoded[:5]))
	for i := 5; i < 32; i++ {
		assert.Equal(t, byte(0), encoded[i])
	}
}

func TestPackERC20TransferData(t *testing.T) {
	to := ethcommon.HexToAddress("0x4838B106FCe9647Bdf1E7877BF73cE8B0BAD5f97")
	data, err := PackERC20Data("transfer", to, big.NewInt(1000))
	require.NoError(t, err)

	// selector of transfer(address,uint256)
	assert.Equal(t, "a9059cbb", hex.EncodeToString(data[:4]))
	assert.Len(t, data, 4+32+32)
}

func TestContractABIsParse(t *testing.T) {
	_, found := GetDSProxyABI().Methods["execute"]
	assert.True(t, found)
	_, found = GetProxyRegistryABI().Methods["proxies"]
	assert.True(t, found)
	_, found = GetCdpManagerABI().Methods["count"]
	assert.True(t, found)
	_, found = GetVatABI().Methods["urns"]
	assert.True(t, found)
	_, found = GetGemJoinABI().Methods["bags"]
	assert.True(t, found)

	actions := GetProxyActionsABI()
	for _, name := range []string{
		"open", "makeGemBag", "freeETH", "freeGem",
		"lockETHAndDraw", "openLockETHAndDraw",
		"lockGemAndDraw", "openLockGemAndDraw",
	} {
		_, found := actions.Methods[name]
		assert.True(t, found, "proxy actions ABI misses %s", name)
	}
}
