// Package yahoo is a quote gateway backed by the Yahoo Finance chart API.
//
// The chart endpoint serves one symbol per request: prices and dividends are
// fetched ticker by ticker, and a failing ticker is skipped. Tickers use the
// Yahoo notation already ("MSFT", "MC.PA"). Exchange rates are read from the
// "EURUSD=X" symbols.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/bluechip"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the chart api root.
const DefaultBaseURL = "https://query2.finance.yahoo.com/v8/finance/chart"

// ErrNoResult is returned when the chart has no usable value.
var ErrNoResult = errors.New("yahoo: no result")

// Client implements bluechip.QuoteGateway.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client

	log zerolog.Logger
	now func() time.Time
}

// New returns a client of the public endpoint.
func New(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		HTTP:      &http.Client{Timeout: timeout},
		log:       log.With().Str("gateway", "yahoo").Logger(),
		now:       time.Now,
	}
}

var _ bluechip.QuoteGateway = (*Client)(nil)

// Prices returns the regular market price of each ticker.
func (c *Client) Prices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	return c.each(ctx, tickers, "price", func(ticker string) (decimal.Decimal, error) {
		chart, err := c.chart(ctx, ticker, url.Values{"interval": {"1d"}, "range": {"5d"}})
		if err != nil {
			return decimal.Zero, err
		}
		return lastPrice(chart)
	})
}

// Dividends returns the sum of the dividends paid over the last year, per
// share.
func (c *Client) Dividends(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	from := c.now().AddDate(-1, 0, 0)
	return c.each(ctx, tickers, "dividends", func(ticker string) (decimal.Decimal, error) {
		chart, err := c.chart(ctx, ticker, url.Values{"interval": {"1d"}, "range": {"1y"}, "events": {"div"}})
		if err != nil {
			return decimal.Zero, err
		}
		return dividendsSince(chart, from)
	})
}

// ExchangeRate returns the regular market price of the pair.
func (c *Client) ExchangeRate(ctx context.Context, pair bluechip.Pair) (decimal.Decimal, error) {
	chart, err := c.chart(ctx, pair.String()+"=X", url.Values{"interval": {"1h"}, "range": {"1d"}})
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := lastPrice(chart)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", pair, err)
	}
	return rate, nil
}

// each calls f for every ticker, skipping failures. It fails only when every
// ticker failed.
func (c *Client) each(ctx context.Context, tickers []string, what string, f func(string) (decimal.Decimal, error)) (map[string]decimal.Decimal, error) {
	res := make(map[string]decimal.Decimal, len(tickers))
	var errs []error
	for _, t := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := f(t)
		if err != nil {
			c.log.Warn().Err(err).Str("ticker", t).Msgf("%s unavailable", what)
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
			continue
		}
		res[t] = v
	}
	if len(res) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return res, nil
}

// chart returns the decoded chart of symbol.
func (c *Client) chart(ctx context.Context, symbol string, query url.Values) (any, error) {
	addr := fmt.Sprintf("%s/%s?%s", c.BaseURL, url.PathEscape(symbol), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("symbol", symbol).Str("status", resp.Status).Msg("http")
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %s: %v", symbol, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("decoding chart of %s: %w", symbol, err)
	}
	return jobj, nil
}

// lastPrice reads the regular market price, or the last known close when the
// meta data has none.
func lastPrice(chart any) (decimal.Decimal, error) {
	if v, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", chart); err == nil {
		if f, ok := v.(float64); ok && f > 0 {
			return decimal.NewFromFloat(f), nil
		}
	}
	closes, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", chart)
	if err != nil {
		return decimal.Zero, ErrNoResult
	}
	list, _ := closes.([]any)
	for i := len(list) - 1; i >= 0; i-- {
		// closes are null when there was no trade.
		if f, ok := list[i].(float64); ok && f > 0 {
			return decimal.NewFromFloat(f), nil
		}
	}
	return decimal.Zero, ErrNoResult
}

// dividendsSince sums the dividend events paid after from.
func dividendsSince(chart any, from time.Time) (decimal.Decimal, error) {
	if _, err := jsonpath.Get("$.chart.result[0].meta", chart); err != nil {
		return decimal.Zero, ErrNoResult
	}
	events, err := jsonpath.Get("$.chart.result[0].events.dividends", chart)
	if err != nil {
		// no event: the security pays no dividend.
		return decimal.Zero, nil
	}
	divs, _ := events.(map[string]any)
	sum := decimal.Zero
	for _, d := range divs {
		d, ok := d.(map[string]any)
		if !ok {
			continue
		}
		amount, _ := d["amount"].(float64)
		date, _ := d["date"].(float64)
		if amount <= 0 || time.Unix(int64(date), 0).Before(from) {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(amount))
	}
	return sum, nil
}
