package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type reportCmd struct{}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the latest portfolio report" }
func (*reportCmd) Usage() string {
	return `mct report

  Renders the report published by the last 'mct update' run to the terminal.
`
}

func (*reportCmd) SetFlags(*flag.FlagSet) {}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := OpenStore().ReadReport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: no published report, run 'mct update' first: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
