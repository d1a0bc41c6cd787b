package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	microcap "github.com/deuxfoistrois/microcap-adapted"
)

// MarketContextMarkdown renders the market context companion report.
func MarketContextMarkdown(ctx *microcap.MarketContext) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Market Context on %s", ctx.Date))
	doc.PlainText(fmt.Sprintf("%s: %s", md.Bold("Market mood"), ctx.Mood))
	doc.PlainText(fmt.Sprintf("%s: %s", md.Bold("Small vs large cap"), ctx.SmallVsLargeCap))

	groups := []struct {
		title   string
		tickers []string
		stats   map[string]microcap.TickerStat
	}{
		{"Megacaps", microcap.Megacaps, ctx.Megacaps},
		{"Indices", microcap.Indices, ctx.Indices},
		{"Sectors", microcap.SectorETFs, ctx.Sectors},
	}

	for _, g := range groups {
		table := md.TableSet{Header: []string{"Ticker", "Price", "Day Change"}}
		for _, ticker := range g.tickers {
			stat, ok := g.stats[ticker]
			if !ok {
				continue
			}
			table.Rows = append(table.Rows, []string{
				ticker,
				fmt.Sprintf("%.2f", stat.Price),
				fmt.Sprintf("%+.2f%%", stat.DailyChange),
			})
		}
		if len(table.Rows) == 0 {
			continue
		}
		doc.H2(g.title)
		doc.Table(table)
	}

	return doc.String()
}
