package microcap

// Valuation is the per-symbol and total value of the portfolio for one run.
// Values carries an entry for every symbol of the universe: symbols with no
// shares or no market data contribute exactly zero rather than being omitted,
// so reports always show the full universe.
type Valuation struct {
	Values map[string]Money
	Total  Money
}

// Valuate combines holdings, cash and prices into a valuation.
// Total = cash + Σ quantity×price over held, priced symbols.
func Valuate(universe []string, holdings Holdings, cash Money, prices PriceMap) Valuation {
	v := Valuation{
		Values: make(map[string]Money, len(universe)),
		Total:  cash,
	}
	for _, sym := range universe {
		qty := holdings[sym]
		price, priced := prices[sym]
		if qty <= 0 || !priced {
			v.Values[sym] = M(0)
			continue
		}
		value := price.MulShares(qty)
		v.Values[sym] = value
		v.Total = v.Total.Add(value)
	}
	return v
}
