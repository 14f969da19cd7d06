package cdp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIlkTableGet(t *testing.T) {
	table := testIlks()

	ilk, err := table.Get("BAT-A")
	require.NoError(t, err)
	assert.Equal(t, "BAT", ilk.Currency)
	assert.Equal(t, 18, ilk.Precision)

	_, err = table.Get("DOGE-A")
	require.Error(t, err)
	var unsupported *UnsupportedCollateralError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "DOGE-A", unsupported.Symbol)
}

func TestIlkTablePrecision(t *testing.T) {
	table := testIlks()

	precision, err := table.Precision("ETH-A")
	require.NoError(t, err)
	assert.Equal(t, BaseUnit, precision)

	precision, err = table.Precision("GNT-A")
	require.NoError(t, err)
	assert.Equal(t, 18, precision)

	_, err = table.Precision("DOGE-A")
	assert.Error(t, err)
}

func TestIlkTableAllKeepsRegistrationOrder(t *testing.T) {
	symbols := []string{}
	for _, ilk := range testIlks().All() {
		symbols = append(symbols, ilk.Symbol)
	}
	assert.Equal(t, []string{"ETH-A", "BAT-A", "GNT-A"}, symbols)
}

func TestIlkBytes32RightPadsSymbol(t *testing.T) {
	b := Ilk{Symbol: "ETH-A"}.Bytes32()
	assert.Equal(t, byte('E'), b[0])
	assert.Equal(t, byte('A'), b[4])
	for i := 5; i < 32; i++ {
		assert.Equal(t, byte(0), b[i])
	}
}

func TestDeploymentByChainID(t *testing.T) {
	mainnet, err := DeploymentByChainID(1)
	require.NoError(t, err)
	_, err = mainnet.Ilks.Get("ETH-A")
	assert.NoError(t, err)

	kovan, err := DeploymentByChainID(42)
	require.NoError(t, err)
	gnt, err := kovan.Ilks.Get("GNT-A")
	require.NoError(t, err)
	assert.True(t, gnt.RequiresBag)

	_, err = DeploymentByChainID(1337)
	assert.Error(t, err)
}
