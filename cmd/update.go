package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	microcap "github.com/deuxfoistrois/microcap-adapted"
	"github.com/deuxfoistrois/microcap-adapted/alphavantage"
	"github.com/deuxfoistrois/microcap-adapted/renderer"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	date string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "run the daily portfolio update" }
func (*updateCmd) Usage() string {
	return `mct update [-d <date>]

  Runs one full tracker cycle: loads the persisted holdings and cash,
  fetches current prices, executes the pending trading decisions exactly
  once, revalues the portfolio, computes the day-over-day delta, and
  persists the updated state, history row and published artifacts.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date to record the run under (defaults to today)")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key := alphavantage.APIKey()
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: ALPHAVANTAGE_API_KEY environment variable not set")
		return subcommands.ExitUsageError
	}

	on := microcap.Today()
	if c.date != "" {
		var err error
		on, err = microcap.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	st := OpenStore()
	result, err := microcap.Update(st, alphavantage.New(key), microcap.DefaultUniverse, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := st.Commit(result, microcap.DefaultUniverse); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	doc := renderer.Report(result.Snapshot, result.Actions, result.Delta, microcap.DefaultUniverse)
	if err := st.WriteReport(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(doc)
	fmt.Printf("Portfolio updated: total %s, cash %s", result.Snapshot.Total, result.Snapshot.Cash)
	if n := len(result.Actions); n > 0 {
		fmt.Printf(", %d actions executed", n)
	}
	fmt.Println()
	return subcommands.ExitSuccess
}
