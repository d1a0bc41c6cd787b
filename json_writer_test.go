package microcap

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter_FieldOrder(t *testing.T) {
	var w jsonObjectWriter
	w.Append("date", "2025-08-27")
	w.Append("cash", "180.00")
	w.AppendRaw("prices", json.RawMessage(`{"GEVO":1.5}`))

	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"date":"2025-08-27","cash":"180.00","prices":{"GEVO":1.5}}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestJsonObjectWriter_Empty(t *testing.T) {
	var w jsonObjectWriter
	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("MarshalJSON() = %s, want {}", got)
	}
}

func TestJsonObjectWriter_Optional(t *testing.T) {
	var w jsonObjectWriter
	w.Optional("skipped", "")
	w.Optional("kept", 42)
	w.Optional("nilmap", map[string]int(nil))

	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(got) != `{"kept":42}` {
		t.Errorf("MarshalJSON() = %s, want only the non-zero field", got)
	}
}

func TestJsonObjectWriter_Embed(t *testing.T) {
	var w jsonObjectWriter
	w.Append("a", 1)
	w.Embed([]byte(`{"b":2,"c":3}`))
	w.EmbedFrom(struct {
		D int `json:"d"`
	}{4})

	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"a":1,"b":2,"c":3,"d":4}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
	// the result must also be valid json
	var m map[string]int
	if err := json.Unmarshal(got, &m); err != nil {
		t.Errorf("output is not valid json: %v", err)
	}
}

func TestJsonObjectWriter_ErrorSticks(t *testing.T) {
	var w jsonObjectWriter
	w.Append("bad", func() {}) // functions cannot marshal
	w.Append("good", 1)
	if _, err := w.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() = nil error, want the first marshal failure")
	}
}
