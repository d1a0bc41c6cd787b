// Package renderer turns run results into markdown documents. It only
// formats: all figures are computed by the microcap package.
package renderer

import (
	"bytes"
	"fmt"
	"sort"

	md "github.com/nao1215/markdown"

	microcap "github.com/deuxfoistrois/microcap-adapted"
)

// Report renders the portfolio report published after each run. Symbols
// appear in universe order; only held and priced positions get a line.
func Report(s *microcap.Snapshot, actions []string, delta *microcap.DeltaReport, universe []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Report")
	doc.PlainText(fmt.Sprintf("%s: %s", md.Bold("As of (latest close)"), s.Date))

	var lines []string
	for _, sym := range universe {
		qty, held := s.Quantities[sym]
		price, priced := s.Prices[sym]
		if !held || qty <= 0 || !priced {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: close %s, qty %d, value %s",
			sym, price.Fixed4(), qty, price.MulShares(qty)))
	}
	if len(lines) > 0 {
		doc.BulletList(lines...)
	}

	doc.PlainText(fmt.Sprintf("Cash: %s", s.Cash))
	doc.PlainText(fmt.Sprintf("%s: %s", md.Bold("Total value"), s.Total))

	if len(actions) > 0 {
		doc.H2("Recent Actions")
		doc.BulletList(actions...)
	}

	if delta != nil && len(delta.Individual) > 0 {
		doc.H2("Daily Changes")
		table := md.TableSet{
			Header: []string{"Symbol", "Price Change", "%", "Value Change"},
		}
		syms := make([]string, 0, len(delta.Individual))
		for sym := range delta.Individual {
			syms = append(syms, sym)
		}
		sort.Strings(syms)
		for _, sym := range syms {
			change := delta.Individual[sym]
			table.Rows = append(table.Rows, []string{
				sym,
				change.PriceChange.SignedString(),
				change.PriceChangePct.SignedString(),
				change.ValueChange.SignedString(),
			})
		}
		table.Rows = append(table.Rows, []string{
			md.Bold("Portfolio"),
			delta.Portfolio.TotalChange.SignedString(),
			delta.Portfolio.TotalChangePct.SignedString(),
			"",
		})
		doc.Table(table)
	}

	return doc.String()
}
