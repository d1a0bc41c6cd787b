package microcap

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in   string
		want Date
	}{
		{"2025-08-27", NewDate(2025, time.August, 27)},
		{"2025-7-1", NewDate(2025, time.July, 1)},
		{"2024-12-31", NewDate(2024, time.December, 31)},
	}
	for _, tc := range testCases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "27/08/2025", "2025-13-01"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) = nil error, want error", in)
		}
	}
}

func TestDate_String(t *testing.T) {
	// single-digit months and days print zero-padded
	if got := NewDate(2025, time.July, 1).String(); got != "2025-07-01" {
		t.Errorf("String() = %q, want %q", got, "2025-07-01")
	}
}

func TestDate_Add(t *testing.T) {
	on := MustParse("2025-08-31")
	if got := on.Add(1); got != MustParse("2025-09-01") {
		t.Errorf("Add(1) = %v, want 2025-09-01", got)
	}
	if got := on.Add(-31); got != MustParse("2025-07-31") {
		t.Errorf("Add(-31) = %v, want 2025-07-31", got)
	}
}

func TestDate_Compare(t *testing.T) {
	a, b := MustParse("2025-08-26"), MustParse("2025-08-27")
	if !a.Before(b) || a.After(b) || b.Before(a) {
		t.Errorf("ordering broken for %v vs %v", a, b)
	}
	if a.Before(a) || a.After(a) {
		t.Errorf("a date compares against itself")
	}
}

func TestDate_JSON(t *testing.T) {
	on := MustParse("2025-08-27")
	data, err := on.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `"2025-08-27"` {
		t.Errorf("MarshalJSON() = %s, want %q", data, `"2025-08-27"`)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if back != on {
		t.Errorf("roundtrip = %v, want %v", back, on)
	}
}
