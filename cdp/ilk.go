package cdp

import (
	"github.com/ethereum/go-ethereum/common"

	vcommon "github.com/vaultis/vaultis/common"
)

// BaseUnit marks collateral denominated directly in the chain's native
// unit instead of a token with its own decimal count.
const BaseUnit = -1

// Ilk is the static configuration of one supported collateral type.
type Ilk struct {
	// Symbol is the collateral type identifier, e.g. "ETH-A".
	Symbol string
	// Currency is the token the collateral is denominated in, e.g. "BAT".
	Currency string
	IsEther  bool
	// Precision is the token's decimal count, or BaseUnit for ether.
	Precision int
	// Gem is the token contract, zero for ether.
	Gem common.Address
	// Join is the adapter the collateral enters the system through.
	Join common.Address
	// RequiresBag is set for tokens whose accounting can't receive a
	// direct transfer into the adapter and need the custodial bag
	// indirection instead.
	RequiresBag bool
}

// Bytes32 encodes the symbol the way the chain contracts index ilks.
func (i Ilk) Bytes32() [32]byte {
	return vcommon.IlkToBytes32(i.Symbol)
}

// IlkTable looks collateral types up by symbol. The table is static per
// deployment, lookups never mutate it.
type IlkTable struct {
	bySymbol map[string]Ilk
	order    []string
}

func NewIlkTable(ilks ...Ilk) *IlkTable {
	t := &IlkTable{bySymbol: map[string]Ilk{}}
	for _, ilk := range ilks {
		if _, found := t.bySymbol[ilk.Symbol]; !found {
			t.order = append(t.order, ilk.Symbol)
		}
		t.bySymbol[ilk.Symbol] = ilk
	}
	return t
}

func (t *IlkTable) Get(symbol string) (Ilk, error) {
	ilk, found := t.bySymbol[symbol]
	if !found {
		return Ilk{}, &UnsupportedCollateralError{Symbol: symbol}
	}
	return ilk, nil
}

// Precision returns the decimal count for the collateral, or BaseUnit
// for ether backed ilks.
func (t *IlkTable) Precision(symbol string) (int, error) {
	ilk, err := t.Get(symbol)
	if err != nil {
		return 0, err
	}
	if ilk.IsEther {
		return BaseUnit, nil
	}
	return ilk.Precision, nil
}

// All returns every registered ilk in registration order.
func (t *IlkTable) All() []Ilk {
	result := make([]Ilk, 0, len(t.order))
	for _, symbol := range t.order {
		result = append(result, t.bySymbol[symbol])
	}
	return result
}
