package cdp

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountAdd(t *testing.T) {
	a := NewAmount("DAI", big.NewInt(5))
	b := NewAmount("DAI", big.NewInt(7))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Value.Cmp(big.NewInt(12)))

	// inputs are not mutated
	assert.Equal(t, 0, a.Value.Cmp(big.NewInt(5)))
}

func TestAmountAddCurrencyMismatch(t *testing.T) {
	a := NewAmount("DAI", big.NewInt(5))
	b := NewAmount("ETH", big.NewInt(7))

	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestAmountZero(t *testing.T) {
	zero := ZeroAmount("DAI")
	assert.True(t, zero.IsZero())
	assert.False(t, NewAmount("DAI", big.NewInt(1)).IsZero())
}

func TestAmountFloat(t *testing.T) {
	amount := NewAmount("ETH", big.NewInt(1500000000000000000))
	assert.InDelta(t, 1.5, amount.Float(18), 1e-9)
}

func TestNewAmountCopiesValue(t *testing.T) {
	v := big.NewInt(10)
	amount := NewAmount("DAI", v)
	v.SetInt64(99)
	assert.Equal(t, 0, amount.Value.Cmp(big.NewInt(10)))
}
