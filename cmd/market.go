package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	microcap "github.com/deuxfoistrois/microcap-adapted"
	"github.com/deuxfoistrois/microcap-adapted/alphavantage"
	"github.com/deuxfoistrois/microcap-adapted/renderer"
)

// marketCmd fetches the market context: megacap, index and sector moves.
type marketCmd struct{}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "fetch and publish the market context report" }
func (*marketCmd) Usage() string {
	return `mct market

  Fetches quotes for the megacap, index and sector tickers, derives the
  market mood and the small-vs-large-cap label, and publishes the market
  context artifact and history row.
`
}

func (*marketCmd) SetFlags(*flag.FlagSet) {}

func (c *marketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key := alphavantage.APIKey()
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: ALPHAVANTAGE_API_KEY environment variable not set")
		return subcommands.ExitUsageError
	}

	client := alphavantage.New(key)
	tickers := make([]string, 0, len(microcap.Megacaps)+len(microcap.Indices)+len(microcap.SectorETFs))
	tickers = append(tickers, microcap.Megacaps...)
	tickers = append(tickers, microcap.Indices...)
	tickers = append(tickers, microcap.SectorETFs...)

	quotes := make(map[string]microcap.Quote, len(tickers))
	bar := progressbar.Default(int64(len(tickers)), "fetching quotes")
	for _, ticker := range tickers {
		if q, ok := client.GetQuote(ticker); ok {
			quotes[ticker] = q
		}
		bar.Add(1)
	}
	bar.Finish()

	ctx := microcap.NewMarketContext(microcap.Today(), time.Now(), quotes)
	if err := OpenStore().SaveMarketContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.MarketContextMarkdown(ctx))
	return subcommands.ExitSuccess
}
