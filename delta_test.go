package microcap

import "testing"

func snapshotOn(date string, cash float64, holdings Holdings, prices PriceMap) *Snapshot {
	v := Valuate(DefaultUniverse, holdings, M(cash), prices)
	return NewSnapshot(MustParse(date), holdings, M(cash), prices, v)
}

func TestChanges_NoPrevious(t *testing.T) {
	current := snapshotOn("2025-08-27", 180, Holdings{"GEVO": 199}, PriceMap{"GEVO": M(1.50)})
	if got := Changes(current, nil); got != nil {
		t.Errorf("Changes(current, nil) = %v, want nil", got)
	}
}

// A single history entry serves as its own baseline and yields zero deltas.
func TestChanges_SelfComparisonIsZero(t *testing.T) {
	snap := snapshotOn("2025-08-27", 180, Holdings{"GEVO": 199, "ARQ": 37},
		PriceMap{"GEVO": M(1.50), "ARQ": M(5.00)})

	report := Changes(snap, snap)
	if report == nil {
		t.Fatal("Changes() = nil, want a report")
	}
	for sym, change := range report.Individual {
		if !change.PriceChange.IsZero() {
			t.Errorf("%s PriceChange = %s, want 0", sym, change.PriceChange.Fixed4())
		}
		if !change.PriceChangePct.Equal(0) {
			t.Errorf("%s PriceChangePct = %s, want 0", sym, change.PriceChangePct)
		}
		if !change.ValueChange.IsZero() {
			t.Errorf("%s ValueChange = %s, want 0", sym, change.ValueChange.Fixed2())
		}
	}
	if !report.Portfolio.TotalChange.IsZero() {
		t.Errorf("TotalChange = %s, want 0", report.Portfolio.TotalChange.Fixed2())
	}
	if !report.Portfolio.TotalChangePct.Equal(0) {
		t.Errorf("TotalChangePct = %s, want 0", report.Portfolio.TotalChangePct)
	}
}

func TestChanges(t *testing.T) {
	previous := snapshotOn("2025-08-26", 100, Holdings{"GEVO": 300, "ARQ": 37},
		PriceMap{"GEVO": M(1.40), "ARQ": M(5.00)})
	// GEVO was trimmed to 199 between the two runs: the value change must
	// use today's 199 shares, not yesterday's 300.
	current := snapshotOn("2025-08-27", 241.40, Holdings{"GEVO": 199, "ARQ": 37},
		PriceMap{"GEVO": M(1.50), "ARQ": M(4.50)})

	report := Changes(current, previous)
	if report == nil {
		t.Fatal("Changes() = nil, want a report")
	}

	gevo := report.Individual["GEVO"]
	if want := M(0.10); !gevo.PriceChange.Equal(want) {
		t.Errorf("GEVO PriceChange = %s, want %s", gevo.PriceChange.Fixed4(), want.Fixed4())
	}
	if want := Percent(100.0 / 14); !gevo.PriceChangePct.Equal(want) { // 0.10/1.40*100
		t.Errorf("GEVO PriceChangePct = %s, want %s", gevo.PriceChangePct, want)
	}
	if want := M(19.90); !gevo.ValueChange.Equal(want) { // 0.10 * 199 current shares
		t.Errorf("GEVO ValueChange = %s, want %s", gevo.ValueChange.Fixed2(), want.Fixed2())
	}

	arq := report.Individual["ARQ"]
	if want := M(-0.50); !arq.PriceChange.Equal(want) {
		t.Errorf("ARQ PriceChange = %s, want %s", arq.PriceChange.Fixed4(), want.Fixed4())
	}
	if want := M(-18.50); !arq.ValueChange.Equal(want) {
		t.Errorf("ARQ ValueChange = %s, want %s", arq.ValueChange.Fixed2(), want.Fixed2())
	}

	// previous total = 100 + 300*1.40 + 37*5.00 = 705
	// current total = 241.40 + 199*1.50 + 37*4.50 = 706.40
	if want := M(1.40); !report.Portfolio.TotalChange.Equal(want) {
		t.Errorf("TotalChange = %s, want %s", report.Portfolio.TotalChange.Fixed2(), want.Fixed2())
	}
}

// Symbols missing from either price map are excluded from the per-symbol
// report, and a zero previous price cannot blow up the percentage.
func TestChanges_PartialOverlap(t *testing.T) {
	previous := &Snapshot{
		Total:      M(100),
		Prices:     PriceMap{"GEVO": M(0), "FEIM": M(50)},
		Quantities: map[string]int64{"GEVO": 10, "FEIM": 2},
	}
	current := snapshotOn("2025-08-27", 0, Holdings{"GEVO": 10, "ARQ": 5},
		PriceMap{"GEVO": M(2.00), "ARQ": M(5.00)})

	report := Changes(current, previous)
	if report == nil {
		t.Fatal("Changes() = nil, want a report")
	}
	if _, ok := report.Individual["ARQ"]; ok {
		t.Error("ARQ reported, but it has no previous price")
	}
	if _, ok := report.Individual["FEIM"]; ok {
		t.Error("FEIM reported, but it has no current price")
	}
	gevo, ok := report.Individual["GEVO"]
	if !ok {
		t.Fatal("GEVO missing from report")
	}
	if !gevo.PriceChangePct.Equal(0) {
		t.Errorf("GEVO PriceChangePct = %s, want 0 (zero previous price)", gevo.PriceChangePct)
	}
	if want := M(20); !gevo.ValueChange.Equal(want) {
		t.Errorf("GEVO ValueChange = %s, want %s", gevo.ValueChange.Fixed2(), want.Fixed2())
	}
}
