package microcap

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Action is the tag of a pending trading instruction.
type Action string

const (
	// SellAll liquidates an entire position at the current price.
	SellAll Action = "SELL_ALL"
	// TrimTo sells down a position to a target share count.
	TrimTo Action = "TRIM_TO"
	// BuyNew buys whole shares up to a target dollar amount.
	BuyNew Action = "BUY_NEW"
	// Hold leaves the position untouched; it is recorded for observability only.
	Hold Action = "HOLD"
)

// Order is a single externally-authored trading instruction.
type Order struct {
	Symbol          string  `json:"symbol"`
	Action          Action  `json:"action"`
	TargetQuantity  int64   `json:"target_quantity,omitempty"`
	TargetValue     float64 `json:"target_value,omitempty"`
	CurrentQuantity int64   `json:"current_quantity,omitempty"`
}

// Queue is the persisted list of pending orders. It is consumed in file
// order, exactly once per run: after processing, the pending list is emptied
// and the execution marker is recorded even if no order had any effect.
type Queue struct {
	Pending       []Order
	Executed      bool
	ExecutionDate Date

	// extra carries any unknown top-level fields of the queue file (the
	// author may attach reasoning or context), preserved verbatim on rewrite.
	extra map[string]json.RawMessage
}

// queue file field names, fixed by the on-disk format.
const (
	queueFieldPending  = "execution_queue"
	queueFieldExecuted = "claude_decisions_executed"
	queueFieldDate     = "execution_date"
)

// DecodeQueue parses the queue file content. Unknown order actions are kept,
// the execution engine ignores them.
func DecodeQueue(data []byte) (*Queue, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("invalid queue file: %w", err)
	}

	q := &Queue{extra: make(map[string]json.RawMessage)}
	for key, raw := range fields {
		switch key {
		case queueFieldPending:
			if err := json.Unmarshal(raw, &q.Pending); err != nil {
				return nil, fmt.Errorf("invalid %q in queue file: %w", queueFieldPending, err)
			}
		case queueFieldExecuted:
			if err := json.Unmarshal(raw, &q.Executed); err != nil {
				return nil, fmt.Errorf("invalid %q in queue file: %w", queueFieldExecuted, err)
			}
		case queueFieldDate:
			var str string
			if err := json.Unmarshal(raw, &str); err != nil {
				return nil, fmt.Errorf("invalid %q in queue file: %w", queueFieldDate, err)
			}
			if str != "" {
				on, err := ParseDate(str)
				if err != nil {
					return nil, fmt.Errorf("invalid %q in queue file: %w", queueFieldDate, err)
				}
				q.ExecutionDate = on
			}
		default:
			q.extra[key] = raw
		}
	}
	return q, nil
}

// MarkExecuted empties the pending list and records the execution marker.
func (q *Queue) MarkExecuted(on Date) {
	q.Pending = nil
	q.Executed = true
	q.ExecutionDate = on
}

// MarshalJSON writes the queue back in its on-disk shape, preserving any
// extra fields the author wrote.
func (q *Queue) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	pending := q.Pending
	if pending == nil {
		pending = []Order{} // the file always carries an array, never null
	}
	w.Append(queueFieldPending, pending)
	w.Append(queueFieldExecuted, q.Executed)
	if !q.ExecutionDate.IsZero() {
		w.Append(queueFieldDate, q.ExecutionDate)
	}
	keys := make([]string, 0, len(q.extra))
	for key := range q.extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		w.AppendRaw(key, q.extra[key])
	}
	return w.MarshalJSON()
}
