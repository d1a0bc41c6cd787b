package microcap

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Store reads and writes the persisted portfolio state. All state lives in
// plain files under two directories: working state under the data directory,
// published artifacts for external consumers under the docs directory.
//
// The store assumes non-overlapping runs; it takes no lock. State is read
// once at the start of a run and written once at the end, so a crash mid-run
// leaves the previous state intact.
type Store struct {
	DataDir   string
	DocsDir   string
	QueueFile string
}

const (
	holdingsFile = "holdings.json"
	cashFile     = "cash.json"
	historyFile  = "portfolio_history.csv"
	latestFile   = "latest.json"
)

// NewStore returns a store over the given directories and queue file.
func NewStore(dataDir, docsDir, queueFile string) *Store {
	return &Store{DataDir: dataDir, DocsDir: docsDir, QueueFile: queueFile}
}

// The starting book, used when no persisted state exists yet.
var (
	initialHoldings = Holdings{
		"GEVO":  199,
		"FEIM":  10,
		"ARQ":   37,
		"UPXI":  17,
		"SERV":  0,
		"MYOMO": 0,
		"CABA":  0,
	}
	initialCash = 180.00
)

// LoadHoldings reads the persisted holdings. A missing file seeds the
// initial portfolio; an unreadable or structurally invalid file is fatal,
// the run must not proceed on corrupted state.
func (s *Store) LoadHoldings() (Holdings, error) {
	data, err := os.ReadFile(filepath.Join(s.DataDir, holdingsFile))
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no holdings file, initializing with the starting portfolio")
		return initialHoldings.Clone(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read holdings: %w", err)
	}
	var h Holdings
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("corrupted holdings file: %w", err)
	}
	if err := h.Check(); err != nil {
		return nil, fmt.Errorf("corrupted holdings file: %w", err)
	}
	return h, nil
}

// SaveHoldings writes the holdings back, creating the data directory if needed.
func (s *Store) SaveHoldings(h Holdings) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return s.write(filepath.Join(s.DataDir, holdingsFile), data)
}

// cashRecord is the on-disk shape of the cash file.
type cashRecord struct {
	Cash Money `json:"cash"`
}

// LoadCash reads the persisted cash balance. A missing file seeds the
// initial amount; unreadable content or a negative balance is fatal.
func (s *Store) LoadCash() (Money, error) {
	data, err := os.ReadFile(filepath.Join(s.DataDir, cashFile))
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no cash file, initializing with the starting amount")
		return M(initialCash), nil
	}
	if err != nil {
		return Money{}, fmt.Errorf("cannot read cash: %w", err)
	}
	var rec cashRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Money{}, fmt.Errorf("corrupted cash file: %w", err)
	}
	if rec.Cash.IsNegative() {
		return Money{}, fmt.Errorf("corrupted cash file: negative balance $%s", rec.Cash.Fixed2())
	}
	return rec.Cash, nil
}

// SaveCash writes the cash balance back.
func (s *Store) SaveCash(cash Money) error {
	data, err := json.MarshalIndent(cashRecord{Cash: cash}, "", "  ")
	if err != nil {
		return err
	}
	return s.write(filepath.Join(s.DataDir, cashFile), data)
}

// LoadQueue reads the pending order queue. A missing, empty or unparsable
// queue file means no pending orders: the condition is logged and nil is
// returned, and the file is left untouched.
func (s *Store) LoadQueue() *Queue {
	data, err := os.ReadFile(s.QueueFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no trading decisions file found")
		return nil
	}
	if err != nil {
		log.Printf("cannot read trading decisions: %v", err)
		return nil
	}
	if len(data) == 0 {
		log.Printf("trading decisions file is empty")
		return nil
	}
	q, err := DecodeQueue(data)
	if err != nil {
		log.Printf("trading decisions file is unparsable, treating as empty: %v", err)
		return nil
	}
	return q
}

// SaveQueue rewrites the queue file, typically right after MarkExecuted.
func (s *Store) SaveQueue(q *Queue) error {
	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return err
	}
	return s.write(s.QueueFile, data)
}

// AppendHistory appends one snapshot row to the append-only history table.
// The header is written when the file does not exist yet. Every symbol of
// the universe gets its price/qty/value columns, so the column set stays
// stable across runs. Price cells come from the run's full price map, not
// the snapshot: a fetched price is recorded even for a symbol not currently
// held, it is tomorrow's change baseline if the symbol is bought back.
func (s *Store) AppendHistory(snap *Snapshot, prices PriceMap, universe []string) error {
	if err := os.MkdirAll(s.DataDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(s.DataDir, historyFile)
	_, statErr := os.Stat(path)
	newFile := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open history: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		header := []string{"date", "total_value", "cash"}
		for _, sym := range universe {
			header = append(header, sym+"_price", sym+"_qty", sym+"_value")
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	row := []string{snap.Date.String(), snap.Total.value.String(), snap.Cash.value.String()}
	for _, sym := range universe {
		price := M(0)
		if p, ok := prices[sym]; ok {
			price = p
		}
		value := M(0)
		if v, ok := snap.Values[sym]; ok {
			value = v
		}
		row = append(row,
			price.value.String(),
			strconv.FormatInt(snap.Quantities[sym], 10),
			value.value.String(),
		)
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// PreviousSnapshot reads the baseline snapshot for the delta computation
// from the history table: the second-to-last row when at least two exist,
// the single row itself when there is exactly one (an all-zero delta
// baseline), nil when the history is empty or unreadable. Any trouble here
// degrades to "no previous snapshot", it never aborts the run.
func (s *Store) PreviousSnapshot(universe []string) *Snapshot {
	rows, header, err := s.readHistory()
	if err != nil {
		log.Printf("cannot load previous day data, continuing without daily changes: %v", err)
		return nil
	}
	if len(rows) < 1 {
		log.Printf("portfolio history is empty")
		return nil
	}

	row := rows[len(rows)-1]
	if len(rows) >= 2 {
		row = rows[len(rows)-2]
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	cell := func(name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	prev := &Snapshot{
		Prices:     make(PriceMap),
		Quantities: make(map[string]int64),
		Values:     make(map[string]Money),
	}
	if str, ok := cell("date"); ok {
		if on, err := ParseDate(str); err == nil {
			prev.Date = on
		}
	}
	if str, ok := cell("total_value"); ok {
		if total, err := parseMoney(str); err == nil {
			prev.Total = total
		}
	}
	for _, sym := range universe {
		priceStr, okP := cell(sym + "_price")
		qtyStr, okQ := cell(sym + "_qty")
		if !okP || !okQ || priceStr == "" {
			continue
		}
		qty, err := parseShares(qtyStr)
		if err != nil || qty <= 0 {
			continue
		}
		price, err := parseMoney(priceStr)
		if err != nil {
			continue
		}
		prev.Prices[sym] = price
		prev.Quantities[sym] = qty
	}
	return prev
}

// readHistory returns all history rows (without the header).
func (s *Store) readHistory() (rows [][]string, header []string, err error) {
	f, err := os.Open(filepath.Join(s.DataDir, historyFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // the backfill may have widened later rows
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[1:], records[0], nil
}

// PublishLatest writes the docs/latest.json artifact consumed by reporting
// collaborators. Field order and value shapes are part of the contract:
// cash and totals as two-decimal strings, prices as numbers, values as
// two-decimal strings, and only currently-held symbols appear in the maps.
func (s *Store) PublishLatest(r *UpdateResult) error {
	prices := make(map[string]json.Number, len(r.Snapshot.Prices))
	for sym, price := range r.Snapshot.Prices {
		prices[sym] = json.Number(price.value.String())
	}
	values := make(map[string]string, len(r.Snapshot.Values))
	for sym, value := range r.Snapshot.Values {
		values[sym] = value.Fixed2()
	}

	var action any
	if len(r.Actions) > 0 {
		action = r.Actions[0]
	}
	var delta any
	if r.Delta != nil {
		delta = r.Delta
	}

	var w jsonObjectWriter
	w.Append("date", r.Snapshot.Date)
	w.Append("cash", r.Snapshot.Cash.Fixed2())
	w.Append("total_value", r.Snapshot.Total.Fixed2())
	w.Append("prices", prices)
	w.Append("quantities", r.Snapshot.Quantities)
	w.Append("values", values)
	w.Append("actions", action)
	w.Append("daily_changes", delta)
	w.Append("claude_decisions_executed", len(r.Actions) > 0)

	compact, err := w.MarshalJSON()
	if err != nil {
		return err
	}
	data, err := indentJSON(compact)
	if err != nil {
		return err
	}
	return s.write(filepath.Join(s.DocsDir, latestFile), data)
}

// WriteReport writes the rendered markdown report artifact.
func (s *Store) WriteReport(md string) error {
	return s.write(filepath.Join(s.DocsDir, "latest_report.md"), []byte(md))
}

// ReadReport returns the last rendered markdown report.
func (s *Store) ReadReport() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.DocsDir, "latest_report.md"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// write creates the parent directory and writes the file in one go.
func (s *Store) write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func parseMoney(str string) (Money, error) {
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return Money{}, err
	}
	return M(v), nil
}

// parseShares accepts both "199" and "199.0", share counts written by older
// tools carry a decimal point.
func parseShares(str string) (int64, error) {
	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func indentJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
