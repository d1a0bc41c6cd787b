package microcap

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Ticker groups for the market context report. These are not portfolio
// positions, they situate the microcap book in the broader market.
var (
	Megacaps   = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META", "BRK-B"}
	Indices    = []string{"SPY", "QQQ", "IWM", "VTI"}
	SectorETFs = []string{"XLK", "XLF", "XLE", "XLV", "XLI"}
)

// Market mood labels.
const (
	MoodBullish = "BULLISH"
	MoodBearish = "BEARISH"
	MoodNeutral = "NEUTRAL"

	SmallCapsOutperforming = "SMALL_CAPS_OUTPERFORMING"
	LargeCapsOutperforming = "LARGE_CAPS_OUTPERFORMING"
)

// TickerStat is one ticker's contribution to the market context.
type TickerStat struct {
	Price       float64 `json:"price"`
	DailyChange float64 `json:"daily_change"`
	Volume      int64   `json:"volume"`
}

// MarketContext is the market-wide companion artifact to the portfolio
// snapshot: megacap, index and sector moves plus two derived labels.
type MarketContext struct {
	Date            Date                  `json:"date"`
	Timestamp       string                `json:"timestamp"`
	Megacaps        map[string]TickerStat `json:"megacaps"`
	Indices         map[string]TickerStat `json:"indices"`
	Sectors         map[string]TickerStat `json:"sectors"`
	Mood            string                `json:"market_mood"`
	SmallVsLargeCap string                `json:"small_vs_large_cap"`
}

// NewMarketContext derives the market context from the fetched quotes.
// Tickers without a usable quote are omitted from their group. The mood is
// the mean megacap day change against a ±1.0% band; the small-vs-large
// label compares IWM to SPY with a 0.5% margin.
func NewMarketContext(on Date, now time.Time, quotes map[string]Quote) *MarketContext {
	ctx := &MarketContext{
		Date:            on,
		Timestamp:       now.UTC().Format(time.RFC3339),
		Megacaps:        groupStats(Megacaps, quotes),
		Indices:         groupStats(Indices, quotes),
		Sectors:         groupStats(SectorETFs, quotes),
		Mood:            MoodNeutral,
		SmallVsLargeCap: MoodNeutral,
	}

	if len(ctx.Megacaps) > 0 {
		var sum float64
		for _, stat := range ctx.Megacaps {
			sum += stat.DailyChange
		}
		avg := sum / float64(len(ctx.Megacaps))
		switch {
		case avg > 1.0:
			ctx.Mood = MoodBullish
		case avg < -1.0:
			ctx.Mood = MoodBearish
		}
	}

	spy, hasSpy := ctx.Indices["SPY"]
	iwm, hasIwm := ctx.Indices["IWM"]
	if hasSpy && hasIwm {
		switch {
		case iwm.DailyChange > spy.DailyChange+0.5:
			ctx.SmallVsLargeCap = SmallCapsOutperforming
		case spy.DailyChange > iwm.DailyChange+0.5:
			ctx.SmallVsLargeCap = LargeCapsOutperforming
		}
	}

	return ctx
}

func groupStats(tickers []string, quotes map[string]Quote) map[string]TickerStat {
	stats := make(map[string]TickerStat, len(tickers))
	for _, ticker := range tickers {
		q, ok := quotes[ticker]
		if !ok {
			continue
		}
		price := q.Price.AsFloat()
		change := 0.0
		if q.PrevClose.IsPositive() {
			change = float64(q.Price.Sub(q.PrevClose).PctOf(q.PrevClose))
		}
		stats[ticker] = TickerStat{
			Price:       round2(price),
			DailyChange: round2(change),
			Volume:      q.Volume,
		}
	}
	return stats
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

const marketHistoryFile = "market_history.csv"

// SaveMarketContext publishes the market context artifact and appends one
// row to the market history table.
func (s *Store) SaveMarketContext(ctx *MarketContext) error {
	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return err
	}
	if err := s.write(filepath.Join(s.DocsDir, "market_context.json"), data); err != nil {
		return err
	}
	return s.appendMarketHistory(ctx)
}

func (s *Store) appendMarketHistory(ctx *MarketContext) error {
	if err := os.MkdirAll(s.DataDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(s.DataDir, marketHistoryFile)
	_, statErr := os.Stat(path)
	newFile := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open market history: %w", err)
	}
	defer f.Close()

	groups := []struct {
		tickers []string
		stats   map[string]TickerStat
	}{
		{Megacaps, ctx.Megacaps},
		{Indices, ctx.Indices},
		{SectorETFs, ctx.Sectors},
	}

	w := csv.NewWriter(f)
	if newFile {
		header := []string{"date", "market_mood", "small_vs_large_cap"}
		for _, g := range groups {
			for _, ticker := range g.tickers {
				header = append(header, ticker+"_price", ticker+"_change")
			}
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	row := []string{ctx.Date.String(), ctx.Mood, ctx.SmallVsLargeCap}
	for _, g := range groups {
		for _, ticker := range g.tickers {
			stat := g.stats[ticker] // zero stat when the fetch failed
			row = append(row,
				strconv.FormatFloat(stat.Price, 'f', -1, 64),
				strconv.FormatFloat(stat.DailyChange, 'f', -1, 64),
			)
		}
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
