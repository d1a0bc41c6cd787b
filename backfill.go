package microcap

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Backfill extends an existing history table with the daily-change columns
// (per-symbol price change, price change percent and value change, plus
// portfolio-level change) computed row against previous row. The first row
// gets all-zero changes. The original file is backed up next to itself
// before being rewritten.
//
// Backfill exists for histories recorded before the delta engine: new rows
// carry their changes in latest.json, old rows only have raw prices.
func (s *Store) Backfill(universe []string) error {
	path := filepath.Join(s.DataDir, historyFile)
	rows, header, err := s.readHistory()
	if err != nil {
		return fmt.Errorf("cannot read history: %w", err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("need at least 2 rows of history to compute changes, have %d", len(rows))
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	backup := filepath.Join(s.DataDir, "portfolio_history_backup.csv")
	if err := os.WriteFile(backup, original, 0644); err != nil {
		return fmt.Errorf("cannot back up history: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	// Widen the header with the change columns, keeping any that already exist.
	newHeader := append([]string(nil), header...)
	addColumn := func(name string) int {
		if i, ok := col[name]; ok {
			return i
		}
		newHeader = append(newHeader, name)
		col[name] = len(newHeader) - 1
		return len(newHeader) - 1
	}
	for _, sym := range universe {
		addColumn(sym + "_price_change")
	}
	for _, sym := range universe {
		addColumn(sym + "_price_change_pct")
	}
	for _, sym := range universe {
		addColumn(sym + "_value_change")
	}
	addColumn("portfolio_change")
	addColumn("portfolio_change_pct")

	out := make([][]string, 0, len(rows)+1)
	out = append(out, newHeader)

	for i, row := range rows {
		widened := make([]string, len(newHeader))
		copy(widened, row)
		set := func(name, value string) { widened[col[name]] = value }

		if i == 0 {
			for _, sym := range universe {
				set(sym+"_price_change", "0.0000")
				set(sym+"_price_change_pct", "0.00")
				set(sym+"_value_change", "0.00")
			}
			set("portfolio_change", "0.00")
			set("portfolio_change_pct", "0.00")
			out = append(out, widened)
			continue
		}

		prev := rows[i-1]
		for _, sym := range universe {
			price, err1 := parseMoney(cell(row, sym+"_price"))
			prevPrice, err2 := parseMoney(cell(prev, sym+"_price"))
			qty, err3 := parseShares(cell(row, sym+"_qty"))
			if err1 != nil || err2 != nil || err3 != nil || !prevPrice.IsPositive() {
				set(sym+"_price_change", "0.0000")
				set(sym+"_price_change_pct", "0.00")
				set(sym+"_value_change", "0.00")
				continue
			}
			change := price.Sub(prevPrice)
			set(sym+"_price_change", change.Fixed4())
			set(sym+"_price_change_pct", fmt.Sprintf("%.2f", float64(change.PctOf(prevPrice))))
			set(sym+"_value_change", change.MulShares(qty).Fixed2())
		}

		total, err1 := parseMoney(cell(row, "total_value"))
		prevTotal, err2 := parseMoney(cell(prev, "total_value"))
		if err1 != nil || err2 != nil {
			set("portfolio_change", "0.00")
			set("portfolio_change_pct", "0.00")
		} else {
			change := total.Sub(prevTotal)
			set("portfolio_change", change.Fixed2())
			set("portfolio_change_pct", fmt.Sprintf("%.2f", float64(change.PctOf(prevTotal))))
		}
		out = append(out, widened)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot rewrite history: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return err
	}
	return w.Error()
}
