package microcap

import "testing"

func TestNewSnapshot_FiltersToHeldPositions(t *testing.T) {
	holdings := Holdings{"GEVO": 199, "FEIM": 10, "SERV": 0}
	prices := PriceMap{"GEVO": M(1.50), "ARQ": M(5.00), "SERV": M(9.99)}
	v := Valuate(DefaultUniverse, holdings, M(180), prices)

	snap := NewSnapshot(MustParse("2025-08-27"), holdings, M(180), prices, v)

	if _, ok := snap.Quantities["SERV"]; ok {
		t.Error("SERV has zero shares but appears in Quantities")
	}
	if _, ok := snap.Prices["ARQ"]; ok {
		t.Error("ARQ is not held but appears in Prices")
	}
	if _, ok := snap.Prices["FEIM"]; ok {
		t.Error("FEIM has no market data but appears in Prices")
	}
	// held-but-unpriced keeps an explicit zero value entry
	if value, ok := snap.Values["FEIM"]; !ok || !value.IsZero() {
		t.Errorf("Values[FEIM] = %v (present=%v), want explicit 0.00", value.Fixed2(), ok)
	}
	if got := snap.Quantities["GEVO"]; got != 199 {
		t.Errorf("Quantities[GEVO] = %d, want 199", got)
	}
	if want := M(298.50); !snap.Values["GEVO"].Equal(want) {
		t.Errorf("Values[GEVO] = %s, want %s", snap.Values["GEVO"].Fixed2(), want.Fixed2())
	}
}

func TestSnapshot_Check(t *testing.T) {
	snap := &Snapshot{
		Date:       MustParse("2025-08-27"),
		Cash:       M(180),
		Total:      M(478.50),
		Prices:     PriceMap{"GEVO": M(1.50)},
		Quantities: map[string]int64{"GEVO": 199},
	}
	if err := snap.Check(); err != nil {
		t.Errorf("Check() = %v, want nil", err)
	}

	snap.Total = M(478.51)
	if err := snap.Check(); err == nil {
		t.Error("Check() = nil, want conservation error")
	}
}
