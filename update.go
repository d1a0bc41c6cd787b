package microcap

import (
	"fmt"
	"log"
)

// Quote is one symbol's market data for a run, as returned by a price source.
type Quote struct {
	Price     Money
	PrevClose Money
	Volume    int64
}

// QuoteSource is the price-fetch collaborator. GetQuote returns ok=false when
// no usable market data is available for the symbol; it never fails the run.
type QuoteSource interface {
	GetQuote(symbol string) (Quote, bool)
}

// UpdateResult is everything one run produced, handed back to the Store for
// persistence and to the renderer for reporting.
type UpdateResult struct {
	Snapshot *Snapshot
	Holdings Holdings
	Cash     Money
	Prices   PriceMap
	Actions  []string
	Delta    *DeltaReport

	// Queue is non-nil when a consumed queue must be written back.
	Queue *Queue
}

// FetchPrices polls the source for every symbol of the universe, one call at
// a time. A failed symbol is logged and degraded to "no price" for this run.
func FetchPrices(src QuoteSource, universe []string) PriceMap {
	prices := make(PriceMap, len(universe))
	for _, sym := range universe {
		q, ok := src.GetQuote(sym)
		if !ok {
			log.Printf("failed to fetch %s", sym)
			continue
		}
		if !q.Price.IsPositive() {
			log.Printf("ignoring non-positive price for %s", sym)
			continue
		}
		prices[sym] = q.Price
		log.Printf("fetched %s: $%s", sym, q.Price.Fixed4())
	}
	return prices
}

// Update performs one run of the state transition engine: load persisted
// state, fetch prices, consume the order queue, revalue, and compute the
// daily delta. Nothing is written to disk here; the caller persists the
// result with Store.Commit so that a failure anywhere leaves the previous
// state intact.
func Update(st *Store, src QuoteSource, universe []string, on Date) (*UpdateResult, error) {
	holdings, err := st.LoadHoldings()
	if err != nil {
		return nil, err
	}
	cash, err := st.LoadCash()
	if err != nil {
		return nil, err
	}

	prices := FetchPrices(src, universe)
	result := &UpdateResult{Prices: prices}

	queue := st.LoadQueue()
	switch {
	case queue == nil:
		// nothing pending, leave the file untouched
	case len(queue.Pending) == 0:
		log.Printf("no pending trading decisions")
	default:
		holdings, cash, result.Actions = Execute(holdings, cash, queue.Pending, prices)
		for _, action := range result.Actions {
			log.Printf("executed: %s", action)
		}
		queue.MarkExecuted(on)
		result.Queue = queue
	}

	result.Holdings = holdings
	result.Cash = cash

	valuation := Valuate(universe, holdings, cash, prices)
	result.Snapshot = NewSnapshot(on, holdings, cash, prices, valuation)
	if err := result.Snapshot.Check(); err != nil {
		return nil, err
	}

	previous := st.PreviousSnapshot(universe)
	result.Delta = Changes(result.Snapshot, previous)

	return result, nil
}

// Commit persists a run's result: holdings, cash, the consumed queue, one
// history row and the published latest.json. This is the only place a run
// writes state.
func (s *Store) Commit(r *UpdateResult, universe []string) error {
	if err := s.SaveHoldings(r.Holdings); err != nil {
		return fmt.Errorf("saving holdings: %w", err)
	}
	if err := s.SaveCash(r.Cash); err != nil {
		return fmt.Errorf("saving cash: %w", err)
	}
	if r.Queue != nil {
		if err := s.SaveQueue(r.Queue); err != nil {
			return fmt.Errorf("saving trading decisions: %w", err)
		}
	}
	if err := s.AppendHistory(r.Snapshot, r.Prices, universe); err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	if err := s.PublishLatest(r); err != nil {
		return fmt.Errorf("publishing latest: %w", err)
	}
	return nil
}
