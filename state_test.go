package bluechip

import (
	"errors"
	"slices"
	"testing"
)

func TestState_AddPosition(t *testing.T) {
	s := State{}
	s, err := s.AddPosition(" msft ", Q(8), dec("364.5375"))
	if err != nil {
		t.Fatalf("AddPosition() error = %v", err)
	}
	if len(s.Positions) != 1 {
		t.Fatalf("len(Positions) = %d, want 1", len(s.Positions))
	}
	if got := s.Positions[0]; got.Ticker != "MSFT" || !got.Quantity.Equal(Q(8)) || !got.PurchasePrice.Equal(dec("364.5375")) {
		t.Errorf("Positions[0] = %+v, want MSFT 8 @ 364.5375", got)
	}

	// a second lot of the same ticker is a new row.
	s, err = s.AddPosition("MSFT", Q(2), dec("400"))
	if err != nil {
		t.Fatalf("AddPosition() error = %v", err)
	}
	if len(s.Positions) != 2 {
		t.Errorf("len(Positions) = %d, want 2", len(s.Positions))
	}

	// zero quantity is accepted.
	if _, err := s.AddPosition("V", Q(0), dec("10")); err != nil {
		t.Errorf("AddPosition(quantity 0) error = %v, want nil", err)
	}
}

// Scenario C: invalid mutations leave the state untouched.
func TestState_AddPosition_Invalid(t *testing.T) {
	s, _ := State{}.AddPosition("MSFT", Q(8), dec("364.5375"))

	tests := []struct {
		name     string
		ticker   string
		quantity Quantity
		price    string
	}{
		{"negative quantity", "MSFT", Q(-1), "300"},
		{"negative price", "MSFT", Q(1), "-0.01"},
		{"empty ticker", "", Q(1), "300"},
		{"blank ticker", "   ", Q(1), "300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.AddPosition(tt.ticker, tt.quantity, dec(tt.price))
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("AddPosition() error = %v, want ErrInvalidInput", err)
			}
			if len(got.Positions) != 1 || len(s.Positions) != 1 {
				t.Errorf("AddPosition() changed the state: %d positions", len(got.Positions))
			}
		})
	}
}

func TestState_RemovePosition(t *testing.T) {
	s := newTestState("0", "0",
		"MSFT", "8", "364.5375",
		"GOOGL", "20", "166.19625",
		"MA", "4", "411.67375",
	)

	got, err := s.RemovePosition(1)
	if err != nil {
		t.Fatalf("RemovePosition(1) error = %v", err)
	}
	var tickers []string
	for _, p := range got.Positions {
		tickers = append(tickers, p.Ticker)
	}
	if want := []string{"MSFT", "MA"}; !slices.Equal(tickers, want) {
		t.Errorf("RemovePosition(1) = %v, want %v", tickers, want)
	}
	if len(s.Positions) != 3 || s.Positions[1].Ticker != "GOOGL" {
		t.Errorf("RemovePosition() modified the receiver: %+v", s.Positions)
	}

	for _, i := range []int{-1, 3, 42} {
		if _, err := s.RemovePosition(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemovePosition(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if _, err := (State{}).RemovePosition(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemovePosition(0) on empty state error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestState_SetCashAndInvested(t *testing.T) {
	s := newTestState("10", "100", "MSFT", "1", "1")

	// any value is accepted, negative included.
	got := s.SetCash(dec("-25.5")).SetTotalInvested(dec("12000"))
	if !got.Cash.Equal(dec("-25.5")) {
		t.Errorf("Cash = %v, want -25.5", got.Cash)
	}
	if !got.TotalInvested.Equal(dec("12000")) {
		t.Errorf("TotalInvested = %v, want 12000", got.TotalInvested)
	}
	if !s.Cash.Equal(dec("10")) || !s.TotalInvested.Equal(dec("100")) {
		t.Errorf("setters modified the receiver")
	}
	if len(got.Positions) != 1 {
		t.Errorf("setters lost the positions")
	}
}

func TestState_NoAliasing(t *testing.T) {
	base := make([]Position, 1, 10) // room to grow in place
	base[0] = Position{Ticker: "MSFT", Quantity: Q(1), PurchasePrice: dec("1")}
	s := State{Positions: base}

	a, _ := s.AddPosition("A", Q(1), dec("1"))
	b, _ := s.AddPosition("B", Q(1), dec("1"))
	if a.Positions[1].Ticker != "A" || b.Positions[1].Ticker != "B" {
		t.Errorf("AddPosition shares the backing array: %v / %v", a.Positions[1].Ticker, b.Positions[1].Ticker)
	}
}

func TestState_Tickers(t *testing.T) {
	s := newTestState("0", "0",
		"MSFT", "1", "1",
		"AI.PA", "1", "1",
		"MSFT", "1", "1",
		"GOOGL", "1", "1",
	)
	if got, want := s.Tickers(), []string{"AI.PA", "GOOGL", "MSFT"}; !slices.Equal(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
	if got := (State{}).Tickers(); len(got) != 0 {
		t.Errorf("Tickers() = %v, want none", got)
	}
}
