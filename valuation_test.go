package microcap

import "testing"

func TestValuate(t *testing.T) {
	universe := []string{"GEVO", "FEIM", "ARQ", "SERV"}
	holdings := Holdings{"GEVO": 199, "FEIM": 10, "SERV": 0}
	prices := PriceMap{"GEVO": M(1.50), "ARQ": M(5.00), "SERV": M(9.99)}

	v := Valuate(universe, holdings, M(180.00), prices)

	// 199*1.50 = 298.50; FEIM held but unpriced; ARQ priced but unheld;
	// SERV zero shares.
	if want := M(298.50); !v.Values["GEVO"].Equal(want) {
		t.Errorf("Values[GEVO] = %s, want %s", v.Values["GEVO"].Fixed2(), want.Fixed2())
	}
	for _, sym := range []string{"FEIM", "ARQ", "SERV"} {
		if !v.Values[sym].IsZero() {
			t.Errorf("Values[%s] = %s, want 0.00", sym, v.Values[sym].Fixed2())
		}
	}
	if len(v.Values) != len(universe) {
		t.Errorf("len(Values) = %d, want every universe symbol (%d)", len(v.Values), len(universe))
	}
	if want := M(478.50); !v.Total.Equal(want) {
		t.Errorf("Total = %s, want %s", v.Total.Fixed2(), want.Fixed2())
	}
}

func TestValuate_EmptyPortfolioIsCash(t *testing.T) {
	v := Valuate(DefaultUniverse, Holdings{}, M(1234.56), PriceMap{})
	if want := M(1234.56); !v.Total.Equal(want) {
		t.Errorf("Total = %s, want %s", v.Total.Fixed2(), want.Fixed2())
	}
}

// The conservation invariant must hold between Valuate and the snapshot
// built from it.
func TestValuate_SnapshotConservation(t *testing.T) {
	holdings := Holdings{"GEVO": 199, "FEIM": 10, "ARQ": 37, "UPXI": 17}
	prices := PriceMap{"GEVO": M(1.4899), "FEIM": M(50.01), "ARQ": M(4.9950), "UPXI": M(3.33)}
	cash := M(180.00)

	v := Valuate(DefaultUniverse, holdings, cash, prices)
	snap := NewSnapshot(MustParse("2025-08-27"), holdings, cash, prices, v)
	if err := snap.Check(); err != nil {
		t.Errorf("Check() = %v, want nil", err)
	}
}
