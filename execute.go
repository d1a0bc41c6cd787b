package microcap

import (
	"fmt"
	"log"
)

// Execute applies the pending orders to the portfolio state, in the order
// given, and returns the resulting holdings and cash along with one action
// message per executed order. The inputs are not mutated.
//
// Each order sees the holdings and cash as left by the previous orders of the
// same run, so a sell can fund a later buy. Orders whose preconditions are
// unmet (no position, unknown price, insufficient cash) are skipped without
// error: the queue author works from yesterday's state and some instructions
// are simply stale by execution time. Cash and share counts can never go
// negative.
func Execute(holdings Holdings, cash Money, orders []Order, prices PriceMap) (Holdings, Money, []string) {
	h := holdings.Clone()
	actions := make([]string, 0, len(orders))

	for _, order := range orders {
		switch order.Action {
		case SellAll:
			qty := h[order.Symbol]
			if qty <= 0 {
				log.Printf("skip SELL_ALL %s: nothing held", order.Symbol)
				continue
			}
			price, ok := prices[order.Symbol]
			if !ok {
				log.Printf("skip SELL_ALL %s: no price", order.Symbol)
				continue
			}
			proceeds := price.MulShares(qty)
			cash = cash.Add(proceeds)
			h[order.Symbol] = 0
			actions = append(actions, fmt.Sprintf("SELL ALL %s: %d shares @ $%s = $%s",
				order.Symbol, qty, price.Fixed4(), proceeds.Fixed2()))

		case TrimTo:
			qty := h[order.Symbol]
			if qty <= order.TargetQuantity {
				log.Printf("skip TRIM_TO %s: holding %d not above target %d", order.Symbol, qty, order.TargetQuantity)
				continue
			}
			price, ok := prices[order.Symbol]
			if !ok {
				log.Printf("skip TRIM_TO %s: no price", order.Symbol)
				continue
			}
			proceeds := price.MulShares(qty - order.TargetQuantity)
			cash = cash.Add(proceeds)
			h[order.Symbol] = order.TargetQuantity
			actions = append(actions, fmt.Sprintf("TRIM %s to %d shares - $%s proceeds",
				order.Symbol, order.TargetQuantity, proceeds.Fixed2()))

		case BuyNew:
			target := M(order.TargetValue)
			if !target.IsPositive() {
				log.Printf("skip BUY_NEW %s: no target value", order.Symbol)
				continue
			}
			if cash.LessThan(target) {
				log.Printf("skip BUY_NEW %s: cash $%s below target $%s", order.Symbol, cash.Fixed2(), target.Fixed2())
				continue
			}
			price, ok := prices[order.Symbol]
			if !ok || !price.IsPositive() {
				log.Printf("skip BUY_NEW %s: no price", order.Symbol)
				continue
			}
			shares := target.WholeShares(price) // never buys a fractional share
			if shares <= 0 {
				log.Printf("skip BUY_NEW %s: target $%s buys no whole share at $%s", order.Symbol, target.Fixed2(), price.Fixed4())
				continue
			}
			cost := price.MulShares(shares)
			if cost.GreaterThan(cash) {
				log.Printf("skip BUY_NEW %s: cost $%s above cash $%s", order.Symbol, cost.Fixed2(), cash.Fixed2())
				continue
			}
			cash = cash.Sub(cost)
			h[order.Symbol] += shares
			actions = append(actions, fmt.Sprintf("BUY %s: %d shares @ $%s = $%s",
				order.Symbol, shares, price.Fixed4(), cost.Fixed2()))

		case Hold:
			// no state change, observability only
			log.Printf("HOLD %s: %d shares", order.Symbol, order.CurrentQuantity)

		default:
			log.Printf("skip unknown action %q for %s", order.Action, order.Symbol)
		}
	}

	return h, cash, actions
}
