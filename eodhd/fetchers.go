package eodhd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// quote is one item of the real-time endpoint.
type quote struct {
	Code          string `json:"code"`
	Timestamp     any    `json:"timestamp"`
	Close         any    `json:"close"` // a number, or "NA" when there is no trade
	PreviousClose any    `json:"previousClose"`
}

// price returns the last close, or the previous close outside trading hours.
func (q quote) price() (decimal.Decimal, bool) {
	for _, v := range []any{q.Close, q.PreviousClose} {
		var d decimal.Decimal
		switch v := v.(type) {
		case float64:
			d = decimal.NewFromFloat(v)
		case string:
			var err error
			if d, err = decimal.NewFromString(v); err != nil {
				continue
			}
		default:
			continue
		}
		if d.IsPositive() {
			return d, true
		}
	}
	return decimal.Zero, false
}

// fetchRealTime returns the delayed real-time quotes of all symbols in one
// request.
func fetchRealTime(ctx context.Context, client *http.Client, base, apiKey string, symbols []string) ([]quote, error) {
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json&s=VTI.US,EURUSD.FOREX
	// {
	//   "code": "AAPL.US",
	//   "timestamp": 1717185600,
	//   "gmtoffset": 0,
	//   "open": 191.44,
	//   "close": 192.25,
	//   "previousClose": 190.29,
	//   ...
	// }
	// The response is a single object for one symbol, a list otherwise.
	q := url.Values{}
	q.Set("api_token", apiKey)
	q.Set("fmt", "json")
	if len(symbols) > 1 {
		q.Set("s", strings.Join(symbols[1:], ","))
	}
	addr := fmt.Sprintf("%s/real-time/%s?%s", base, url.PathEscape(symbols[0]), q.Encode())

	var raw json.RawMessage
	if err := jwget(ctx, client, addr, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var one quote
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, err
		}
		return []quote{one}, nil
	}
	var all []quote
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// dividend is one item of the dividends endpoint.
type dividend struct {
	Date     time.Time
	Value    decimal.Decimal
	Currency string
}

// fetchDividends returns the dividend history for a given EODHD ticker, since from.
func fetchDividends(ctx context.Context, client *http.Client, base, apiKey, symbol string, from time.Time) ([]dividend, error) {
	addr := fmt.Sprintf("%s/div/%s?fmt=json&api_token=%s&from=%s", base, url.PathEscape(symbol), url.QueryEscape(apiKey), from.Format(time.DateOnly))

	type apiDividend struct {
		Date     string          `json:"date"` // ex-dividend date, see https://eodhd.com/financial-apis/api-splits-dividends
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}

	content := make([]apiDividend, 0)
	if err := jwget(ctx, client, addr, &content); err != nil {
		return nil, err
	}

	res := make([]dividend, 0, len(content))
	for _, d := range content {
		date, err := time.Parse(time.DateOnly, d.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid dividend date %q for %s: %w", d.Date, symbol, err)
		}
		res = append(res, dividend{Date: date, Value: d.Value, Currency: d.Currency})
	}
	return res, nil
}
