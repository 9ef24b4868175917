package bluechip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Embed appends the fields from a raw JSON object (provided as a byte slice)
// into the current JSON object being built. It strips the outer braces of the
// embedded JSON, effectively merging its contents.
func (w *jsonObjectWriter) Embed(rawJSON []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	trimmed := bytes.TrimSpace(rawJSON)
	if len(trimmed) > 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}' {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	if len(trimmed) > 0 {
		w.Write(trimmed)
		w.WriteString(",")
	}
	return w
}

// Append adds a new key-value pair to the JSON object. The value is marshaled
// to JSON using `json.Marshal`.
func (w *jsonObjectWriter) Append(key string, value interface{}) *jsonObjectWriter {
	if w.err != nil {
		return w
	}

	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}

	w.WriteString(fmt.Sprintf("%q:", key))
	w.Write(valBytes)
	w.WriteString(",")
	return w
}

// Optional appends a key-value pair to the JSON object only if the provided
// value is not its type's zero value. This helps in omitting empty or default
// fields from the JSON output.
func (w *jsonObjectWriter) Optional(key string, value interface{}) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	// Check for zero values
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON finalizes the JSON object construction, wraps the content in
// braces, and returns the complete JSON byte slice. It satisfies the
// `json.Marshaler` interface.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')

	return final, nil
}

// MarshalJSON encodes the position metrics with camelCase keys.
func (m PositionMetrics) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("index", m.Index)
	w.Append("ticker", m.Ticker)
	w.Append("currency", m.Currency)
	w.Append("quantity", m.Quantity)
	w.Append("purchasePrice", m.PurchasePrice)
	w.Append("purchasePriceDomestic", m.PurchasePriceDomestic)
	w.Append("price", m.Price)
	w.Append("priceDomestic", m.PriceDomestic)
	w.Append("value", m.Value)
	w.Append("gain", m.Gain)
	w.Append("performance", m.Performance)
	w.Append("dividendRate", m.DividendRate)
	w.Append("annualDividend", m.AnnualDividend)
	w.Append("yield", m.Yield)
	w.Append("weight", m.Weight)
	return w.MarshalJSON()
}

// MarshalJSON encodes the view with camelCase keys.
func (v *View) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", v.Currency)
	w.Append("foreign", v.Foreign)
	w.Append("fx", v.FX)
	w.Append("fxSource", v.FXSource.String())
	w.Append("totalValue", v.Total)
	w.Append("equity", v.Equity)
	w.Append("cash", v.Cash)
	w.Append("invested", v.Invested)
	w.Append("gain", v.Gain)
	w.Append("roi", v.ROI)
	w.Append("dividends", v.Dividends)
	w.Append("cashWeight", v.CashWeight)
	w.Optional("unpriced", v.Unpriced)
	w.Append("positions", v.Positions)
	return w.MarshalJSON()
}

// MarshalJSON encodes the position with camelCase keys.
func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", p.Ticker)
	w.Append("quantity", p.Quantity)
	w.Append("purchasePrice", p.PurchasePrice)
	return w.MarshalJSON()
}

// MarshalJSON encodes the state with camelCase keys.
func (s State) MarshalJSON() ([]byte, error) {
	positions := s.Positions
	if positions == nil {
		positions = []Position{}
	}
	var w jsonObjectWriter
	w.Append("positions", positions)
	w.Append("cash", s.Cash)
	w.Append("totalInvested", s.TotalInvested)
	return w.MarshalJSON()
}
