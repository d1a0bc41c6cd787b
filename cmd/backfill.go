package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	microcap "github.com/deuxfoistrois/microcap-adapted"
)

type backfillCmd struct{}

func (*backfillCmd) Name() string     { return "backfill" }
func (*backfillCmd) Synopsis() string { return "backfill daily-change columns in the history table" }
func (*backfillCmd) Usage() string {
	return `mct backfill

  Recomputes the per-symbol and portfolio daily-change columns for every
  row of the portfolio history. The original file is backed up first.
`
}

func (*backfillCmd) SetFlags(*flag.FlagSet) {}

func (c *backfillCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := OpenStore().Backfill(microcap.DefaultUniverse); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Successfully backfilled daily changes.")
	return subcommands.ExitSuccess
}
