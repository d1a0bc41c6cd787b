package microcap

import "fmt"

// Snapshot is one run's persisted view of the portfolio: date, cash, total
// value and the per-symbol prices, quantities and values of the positions
// actually held. One snapshot is appended to the history per run; the
// previous one is the baseline for the daily delta.
type Snapshot struct {
	Date       Date
	Cash       Money
	Total      Money
	Prices     PriceMap
	Quantities map[string]int64
	Values     map[string]Money
}

// NewSnapshot builds the snapshot for a run from the post-trade state and
// its valuation. The persisted maps only carry currently-held symbols:
// prices additionally require market data, values keep a zero entry for a
// held-but-unpriced position.
func NewSnapshot(on Date, holdings Holdings, cash Money, prices PriceMap, v Valuation) *Snapshot {
	s := &Snapshot{
		Date:       on,
		Cash:       cash,
		Total:      v.Total,
		Prices:     make(PriceMap),
		Quantities: make(map[string]int64),
		Values:     make(map[string]Money),
	}
	for sym, qty := range holdings {
		if qty <= 0 {
			continue
		}
		s.Quantities[sym] = qty
		if price, ok := prices[sym]; ok {
			s.Prices[sym] = price
		}
		if value, ok := v.Values[sym]; ok {
			s.Values[sym] = value
		} else {
			s.Values[sym] = M(0)
		}
	}
	return s
}

// Check verifies the conservation invariant of a snapshot:
// total == cash + Σ quantity×price over its priced positions.
func (s *Snapshot) Check() error {
	sum := s.Cash
	for sym, qty := range s.Quantities {
		if price, ok := s.Prices[sym]; ok {
			sum = sum.Add(price.MulShares(qty))
		}
	}
	if !sum.Equal(s.Total) {
		return fmt.Errorf("snapshot %s breaks conservation: total $%s != cash + positions $%s",
			s.Date, s.Total.Fixed2(), sum.Fixed2())
	}
	return nil
}
