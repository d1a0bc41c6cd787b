package microcap

// SymbolChange is the day-over-day movement of one position.
//
// ValueChange is the price move applied to the quantity held *today*, not the
// change of the position's total value: it isolates the effect of the market
// on what is currently held, excluding the effect of trades.
type SymbolChange struct {
	PriceChange    Money   `json:"price_change"`
	PriceChangePct Percent `json:"price_change_pct"`
	ValueChange    Money   `json:"value_change"`
}

// PortfolioChange is the day-over-day movement of the whole book.
type PortfolioChange struct {
	TotalChange    Money   `json:"total_change"`
	TotalChangePct Percent `json:"total_change_pct"`
}

// DeltaReport compares a run's snapshot against the previous one.
type DeltaReport struct {
	Individual map[string]SymbolChange `json:"individual"`
	Portfolio  PortfolioChange         `json:"portfolio"`
}

// Changes compares the current snapshot against the previous one and returns
// the delta report, or nil when there is no previous snapshot. Per-symbol
// figures are computed only for symbols present in both snapshots' price
// maps. A previous price of zero yields a zero percentage.
func Changes(current, previous *Snapshot) *DeltaReport {
	if previous == nil {
		return nil
	}

	report := &DeltaReport{Individual: make(map[string]SymbolChange)}

	for sym, price := range current.Prices {
		prev, ok := previous.Prices[sym]
		if !ok {
			continue
		}
		priceChange := price.Sub(prev)
		report.Individual[sym] = SymbolChange{
			PriceChange:    priceChange,
			PriceChangePct: priceChange.PctOf(prev),
			ValueChange:    priceChange.MulShares(current.Quantities[sym]),
		}
	}

	totalChange := current.Total.Sub(previous.Total)
	report.Portfolio = PortfolioChange{
		TotalChange:    totalChange,
		TotalChangePct: totalChange.PctOf(previous.Total),
	}
	return report
}
