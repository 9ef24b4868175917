package bluechip

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Position is one lot of a security. Two positions may share the same ticker,
// they are then distinct lots.
type Position struct {
	Ticker   string
	Quantity Quantity
	// PurchasePrice is the unit price paid, in the security's native currency.
	PurchasePrice decimal.Decimal
}

// State is the persisted snapshot of the portfolio.
//
// Cash and TotalInvested are in the domestic currency and are edited
// independently: neither is derived from the other.
type State struct {
	Positions     []Position
	Cash          decimal.Decimal
	TotalInvested decimal.Decimal
}

// NormalizeTicker trims and upper cases a ticker.
func NormalizeTicker(ticker string) string { return strings.ToUpper(strings.TrimSpace(ticker)) }

// AddPosition returns a copy of s with a new position appended.
//
// It fails with ErrInvalidInput if the ticker is empty or if quantity or price
// is negative. A zero quantity is accepted.
func (s State) AddPosition(ticker string, quantity Quantity, price decimal.Decimal) (State, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return s, fmt.Errorf("%w: empty ticker", ErrInvalidInput)
	}
	if quantity.IsNegative() {
		return s, fmt.Errorf("%w: negative quantity %v for %s", ErrInvalidInput, quantity, ticker)
	}
	if price.IsNegative() {
		return s, fmt.Errorf("%w: negative purchase price %v for %s", ErrInvalidInput, price, ticker)
	}
	ns := s.clone()
	ns.Positions = append(ns.Positions, Position{Ticker: ticker, Quantity: quantity, PurchasePrice: price})
	return ns, nil
}

// RemovePosition returns a copy of s without the position at index i.
func (s State) RemovePosition(i int) (State, error) {
	if i < 0 || i >= len(s.Positions) {
		return s, fmt.Errorf("%w: no position at index %d (%d positions)", ErrIndexOutOfRange, i, len(s.Positions))
	}
	ns := s.clone()
	ns.Positions = slices.Delete(ns.Positions, i, i+1)
	return ns, nil
}

// SetCash overwrites the cash balance. Any value is accepted.
func (s State) SetCash(value decimal.Decimal) State {
	ns := s.clone()
	ns.Cash = value
	return ns
}

// SetTotalInvested overwrites the invested capital. Any value is accepted.
func (s State) SetTotalInvested(value decimal.Decimal) State {
	ns := s.clone()
	ns.TotalInvested = value
	return ns
}

// Tickers returns the distinct tickers held, sorted.
func (s State) Tickers() []string {
	tickers := make([]string, 0, len(s.Positions))
	for _, p := range s.Positions {
		tickers = append(tickers, p.Ticker)
	}
	slices.Sort(tickers)
	return slices.Compact(tickers)
}

// IsEmpty reports whether there is no position.
func (s State) IsEmpty() bool { return len(s.Positions) == 0 }

// clone makes sure that mutations never share the positions backing array.
func (s State) clone() State {
	s.Positions = slices.Clone(s.Positions)
	return s
}
