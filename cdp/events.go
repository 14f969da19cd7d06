package cdp

import (
	"math/big"
)

// normalizeEvents turns raw indexer rows into uniform events tagged with
// the currency of their ilk. The input order is authoritative and is
// kept as is.
func normalizeEvents(raw []RawEvent, ilks *IlkTable) ([]Event, error) {
	result := make([]Event, 0, len(raw))
	for _, r := range raw {
		ilk, err := ilks.Get(r.Ilk)
		if err != nil {
			return nil, err
		}
		amount := r.Amount
		if amount == nil {
			amount = big.NewInt(0)
		}
		result = append(result, Event{
			Ilk:       r.Ilk,
			Currency:  ilk.Currency,
			Amount:    NewAmount(ilk.Currency, amount),
			Type:      r.Type,
			Timestamp: r.Timestamp,
			TxHash:    r.TxHash,
			Block:     r.Block,
		})
	}
	return result, nil
}
