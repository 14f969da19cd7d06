package cdp

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEventsKeepsOrderAndTagsCurrency(t *testing.T) {
	now := time.Now()
	raw := []RawEvent{
		{Ilk: "GNT-A", Type: "lock", Amount: big.NewInt(5), Timestamp: now.Add(-2 * time.Hour), Block: 100},
		{Ilk: "ETH-A", Type: "free", Amount: big.NewInt(3), Timestamp: now.Add(-time.Hour), Block: 110},
		{Ilk: "GNT-A", Type: "draw", Amount: big.NewInt(9), Timestamp: now, Block: 120},
	}

	events, err := normalizeEvents(raw, testIlks())
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "GNT", events[0].Currency)
	assert.Equal(t, "ETH", events[1].Currency)
	assert.Equal(t, "GNT", events[2].Currency)
	assert.Equal(t, uint64(100), events[0].Block)
	assert.Equal(t, uint64(120), events[2].Block)
	assert.Equal(t, 0, events[2].Amount.Value.Cmp(big.NewInt(9)))
}

func TestNormalizeEventsNilAmountBecomesZero(t *testing.T) {
	events, err := normalizeEvents([]RawEvent{
		{Ilk: "ETH-A", Type: "open"},
	}, testIlks())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Amount.IsZero())
}

func TestNormalizeEventsUnknownIlkFails(t *testing.T) {
	_, err := normalizeEvents([]RawEvent{
		{Ilk: "DOGE-A", Type: "lock", Amount: big.NewInt(1)},
	}, testIlks())
	require.Error(t, err)
	var unsupported *UnsupportedCollateralError
	assert.True(t, errors.As(err, &unsupported))
}
