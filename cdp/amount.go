package cdp

import (
	"fmt"
	"math/big"

	vcommon "github.com/vaultis/vaultis/common"
)

// Amount is a currency tagged integer value denominated in the token's
// smallest unit.
type Amount struct {
	Currency string
	Value    *big.Int
}

func NewAmount(currency string, value *big.Int) Amount {
	return Amount{Currency: currency, Value: new(big.Int).Set(value)}
}

func ZeroAmount(currency string) Amount {
	return Amount{Currency: currency, Value: big.NewInt(0)}
}

func (a Amount) IsZero() bool {
	return a.Value == nil || a.Value.Sign() == 0
}

// Add sums two amounts of the same currency. Mixing currencies is a
// programming error and is reported instead of silently summing.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.Currency != b.Currency {
		return Amount{}, fmt.Errorf(
			"can't add %s to %s, currencies differ", b.Currency, a.Currency,
		)
	}
	return Amount{
		Currency: a.Currency,
		Value:    new(big.Int).Add(a.Value, b.Value),
	}, nil
}

// Float renders the amount in whole token units given its decimals.
func (a Amount) Float(decimals uint64) float64 {
	if a.Value == nil {
		return 0
	}
	return vcommon.BigToFloat(a.Value, decimals)
}

func (a Amount) String() string {
	if a.Value == nil {
		return fmt.Sprintf("0 %s", a.Currency)
	}
	return fmt.Sprintf("%s %s", a.Value.String(), a.Currency)
}
