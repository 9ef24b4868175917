package bluechip

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("simple object", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 1)
		w.Append("b", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":1,"b":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed object", func(t *testing.T) {
		var w jsonObjectWriter
		embedded := json.RawMessage(`{"c":3,"d":4}`)
		w.Append("a", 1)
		w.Embed(embedded)
		w.Append("b", 2)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":1,"c":3,"d":4,"b":2}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // assess that a zero value is actually added.
		w.Optional("b", "")
		w.Optional("c", 0)
		w.Optional("d", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":0,"d":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("money", func(t *testing.T) {
		got, err := json.Marshal(EUR(12.5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"currency":"EUR","amount":"12.5"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		m := struct {
			A Metric[Percent] `json:"a"`
			B Metric[Percent] `json:"b"`
			C Metric[Percent] `json:"c"`
		}{Known(Percent(1.5)), Unavailable[Percent](), Undefined[Percent]()}
		got, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":1.5,"b":{"status":"unavailable"},"c":{"status":"undefined"}}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("state", func(t *testing.T) {
		s, _ := State{}.AddPosition("msft", Q(8), dec("364.5375"))
		got, err := json.Marshal(s.SetCash(dec("100")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"positions":[{"ticker":"MSFT","quantity":"8","purchasePrice":"364.5375"}],"cash":"100","totalInvested":"0"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
