// Package cmd implements the CLI application for the microcap tracker.
// A main package calls Register() to install the subcommands and Execute()
// on the user-selected one.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	microcap "github.com/deuxfoistrois/microcap-adapted"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "portfolio")
	c.Register(&reportCmd{}, "portfolio")
	c.Register(&backfillCmd{}, "portfolio")
	c.Register(&marketCmd{}, "market")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataDir   = flag.String("data-dir", "data", "Path to the working state directory")
	docsDir   = flag.String("docs-dir", "docs", "Path to the published artifacts directory")
	queueFile = flag.String("decisions-file", "trading_decisions.json", "Path to the pending trading decisions file")
)

// OpenStore is the central function to open the state store.
func OpenStore() *microcap.Store {
	return microcap.NewStore(*dataDir, *docsDir, *queueFile)
}

// printMarkdown renders a markdown document to the terminal.
func printMarkdown(doc string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		fmt.Print(doc)
		return
	}
	fmt.Print(out)
}
