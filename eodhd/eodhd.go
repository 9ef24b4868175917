// Package eodhd is a quote gateway backed by the EOD Historical Data API.
//
// Tickers are given in the portfolio notation: a ticker without an exchange
// suffix is a US security ("MSFT" is "MSFT.US" for eodhd), any other ticker is
// passed as is ("MC.PA").
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/bluechip"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the eodhd api root.
const DefaultBaseURL = "https://eodhd.com/api"

// Client implements bluechip.QuoteGateway.
type Client struct {
	APIKey  string
	BaseURL string

	// HTTP is used for real-time quotes, never cached.
	HTTP *http.Client
	// Daily is used for dividends and searches, cached on disk for a day.
	Daily *http.Client

	log zerolog.Logger
	now func() time.Time
}

// New returns a client with the default endpoints. cacheDir is where daily
// responses are kept, the system temporary folder if empty.
func New(apiKey, cacheDir string, timeout time.Duration, log zerolog.Logger) *Client {
	log = log.With().Str("gateway", "eodhd").Logger()
	daily := newCachingClient(cacheDir, 24*time.Hour, log)
	daily.Timeout = timeout
	return &Client{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Daily:   daily,
		log:     log,
		now:     time.Now,
	}
}

var _ bluechip.QuoteGateway = (*Client)(nil)

// Symbol returns the eodhd symbol of a ticker.
func Symbol(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".US"
}

// Prices returns the latest price of each ticker, in a single request.
func (c *Client) Prices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	if len(tickers) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	bySymbol := make(map[string]string, len(tickers))
	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		s := Symbol(t)
		if _, ok := bySymbol[s]; !ok {
			symbols = append(symbols, s)
		}
		bySymbol[s] = t
	}

	quotes, err := fetchRealTime(ctx, c.HTTP, c.BaseURL, c.APIKey, symbols)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(quotes))
	for _, q := range quotes {
		ticker, ok := bySymbol[q.Code]
		if !ok {
			continue
		}
		price, ok := q.price()
		if !ok {
			c.log.Warn().Str("ticker", ticker).Msg("no quote")
			continue
		}
		prices[ticker] = price
	}
	return prices, nil
}

// Dividends returns the sum of the dividends paid over the last year, per
// share. Failing tickers are skipped: an error is returned only when no
// ticker could be fetched.
func (c *Client) Dividends(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	from := c.now().AddDate(-1, 0, 0)
	res := make(map[string]decimal.Decimal, len(tickers))
	var errs []error
	for _, t := range tickers {
		divs, err := fetchDividends(ctx, c.Daily, c.BaseURL, c.APIKey, Symbol(t), from)
		if err != nil {
			c.log.Warn().Err(err).Str("ticker", t).Msg("dividends unavailable")
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
			continue
		}
		sum := decimal.Zero
		for _, d := range divs {
			if d.Date.Before(from) {
				continue
			}
			sum = sum.Add(d.Value)
		}
		res[t] = sum
	}
	if len(res) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return res, nil
}

// ExchangeRate returns the latest rate of the pair.
func (c *Client) ExchangeRate(ctx context.Context, pair bluechip.Pair) (decimal.Decimal, error) {
	// The Ticker for forex is in the format "fromCurrency+toCurrency.FOREX".
	symbol := pair.String() + ".FOREX"
	quotes, err := fetchRealTime(ctx, c.HTTP, c.BaseURL, c.APIKey, []string{symbol})
	if err != nil {
		return decimal.Zero, err
	}
	for _, q := range quotes {
		if rate, ok := q.price(); ok && q.Code == symbol {
			return rate, nil
		}
	}
	return decimal.Zero, fmt.Errorf("no quote for %s", symbol)
}
