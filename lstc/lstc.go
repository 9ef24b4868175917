// Package lstc reads the EUR/USD rate traded on Lang & Schwarz.
//
// It is a source of exchange rates only. Backup puts it behind a quote
// gateway, for when that gateway cannot quote the rate.
package lstc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/bluechip"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultURL is the intraday chart of the EUR/USD instrument.
const DefaultURL = "https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument?instrumentId=349938&series=intraday&type=mini"

// ErrUnsupportedPair is returned for any pair but EURUSD and USDEUR.
var ErrUnsupportedPair = errors.New("lstc: unsupported currency pair")

var eurusd = bluechip.Pair{Base: "EUR", Quote: "USD"}

// Client fetches the last EUR/USD trade.
type Client struct {
	URL  string
	HTTP *http.Client
	log  zerolog.Logger
}

// New returns a client of the public endpoint.
func New(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		URL:  DefaultURL,
		HTTP: &http.Client{Timeout: timeout},
		log:  log.With().Str("gateway", "lstc").Logger(),
	}
}

// ExchangeRate returns the rate of pair, EURUSD or its inverse.
func (c *Client) ExchangeRate(ctx context.Context, pair bluechip.Pair) (decimal.Decimal, error) {
	if pair != eurusd && pair != eurusd.Inverse() {
		return decimal.Zero, fmt.Errorf("%w %s", ErrUnsupportedPair, pair)
	}
	rate, err := c.latest(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if pair == eurusd {
		return rate, nil
	}
	return bluechip.Invert(rate).Get()
}

/*
latest reads the last point of the intraday series:

	{
	    "series": {
	        "intraday": {
	            "data": [[1748736000000, 1.0812], [1748736060000, 1.0815]]
	        }
	    }
	}
*/
func (c *Client) latest(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error in wget %q: %w", "EUR/USD", err)
	}
	defer resp.Body.Close()
	c.log.Debug().Str("status", resp.Status).Msg("http")
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return decimal.Zero, fmt.Errorf("decoding %q: %w", "EUR/USD", err)
	}

	const path = "$.series.intraday.data"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %q %w", "EUR/USD", path, err)
	}
	points, _ := jval.([]any)
	if len(points) == 0 {
		return decimal.Zero, fmt.Errorf("error parsing %q: no intraday trade", "EUR/USD")
	}
	// a point is [timestamp, value].
	last, _ := points[len(points)-1].([]any)
	if len(last) < 2 {
		return decimal.Zero, fmt.Errorf("error parsing %q: invalid point %v", "EUR/USD", points[len(points)-1])
	}
	val, ok := last[1].(float64)
	if !ok || val <= 0 {
		return decimal.Zero, fmt.Errorf("error parsing %q: %s %v", "EUR/USD", "not a positive float", last[1])
	}
	return decimal.NewFromFloat(val), nil
}

// Backup returns gw, asking c for the exchange rates gw fails to quote.
func (c *Client) Backup(gw bluechip.QuoteGateway) bluechip.QuoteGateway {
	return &backup{QuoteGateway: gw, rates: c}
}

type backup struct {
	bluechip.QuoteGateway
	rates *Client
}

func (b *backup) ExchangeRate(ctx context.Context, pair bluechip.Pair) (decimal.Decimal, error) {
	rate, err := b.QuoteGateway.ExchangeRate(ctx, pair)
	if err == nil && rate.IsPositive() {
		return rate, nil
	}
	b.rates.log.Info().AnErr("cause", err).Str("pair", pair.String()).Msg("asking Lang & Schwarz for the exchange rate")
	backupRate, backupErr := b.rates.ExchangeRate(ctx, pair)
	if backupErr != nil {
		return decimal.Zero, errors.Join(err, backupErr)
	}
	return backupRate, nil
}
