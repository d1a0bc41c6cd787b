package microcap

import (
	"fmt"
	"sort"
)

// DefaultUniverse is the fixed set of symbols the tracker follows.
var DefaultUniverse = []string{"GEVO", "FEIM", "ARQ", "UPXI", "SERV", "MYOMO", "CABA"}

// Holdings maps a symbol to the integer number of shares currently owned.
// Zero-share entries mean "not held" but may remain present for bookkeeping.
type Holdings map[string]int64

// PriceMap maps a symbol to its current price. Symbols absent from the map
// have no market data for this run and are excluded from valuation and
// execution.
type PriceMap map[string]Money

// Clone returns an independent copy of the holdings.
func (h Holdings) Clone() Holdings {
	c := make(Holdings, len(h))
	for sym, qty := range h {
		c[sym] = qty
	}
	return c
}

// Symbols returns the held symbols in lexical order.
func (h Holdings) Symbols() []string {
	syms := make([]string, 0, len(h))
	for sym := range h {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// Check validates the structural invariants of persisted holdings.
// A negative share count means the state store is corrupted and the run
// must not proceed.
func (h Holdings) Check() error {
	for sym, qty := range h {
		if sym == "" {
			return fmt.Errorf("holdings contain an empty symbol")
		}
		if qty < 0 {
			return fmt.Errorf("holdings for %s are negative (%d)", sym, qty)
		}
	}
	return nil
}

// Check validates that every known price is positive.
func (p PriceMap) Check() error {
	for sym, price := range p {
		if !price.IsPositive() {
			return fmt.Errorf("price for %s is not positive (%s)", sym, price.Fixed4())
		}
	}
	return nil
}
