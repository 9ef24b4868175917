package bluechip

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// QuoteGateway is the contract for market data providers.
//
// All amounts are in the security's native currency. Results may be partial:
// a ticker missing from the returned map is unknown. An error means that the
// call returned nothing usable.
type QuoteGateway interface {
	// Prices returns the current price of each ticker, in as few requests as
	// the provider allows.
	Prices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
	// Dividends returns the annual dividend per share of each ticker.
	Dividends(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
	// ExchangeRate returns the rate of pair: one pair.Base is worth rate pair.Quote.
	ExchangeRate(ctx context.Context, pair Pair) (decimal.Decimal, error)
}

// FXPolicy tells how to obtain the domestic-per-foreign rate.
type FXPolicy struct {
	// Quoted is the pair asked to the gateway. EURUSD is the most common
	// quote, and it is foreign-per-domestic, so it has to be inverted.
	Quoted Pair
	// Fallback is the rate to use, expressed for Quoted, when the gateway
	// fails. Zero means no fallback: the rate is then unavailable.
	Fallback decimal.Decimal
}

// DefaultFXPolicy asks for EURUSD and falls back to 1.08.
var DefaultFXPolicy = FXPolicy{
	Quoted:   Pair{Base: "EUR", Quote: "USD"},
	Fallback: decimal.RequireFromString("1.08"),
}

// FXSource tells where the rate of a snapshot comes from.
type FXSource int

const (
	FXNone     FXSource = iota // no rate at all
	FXLive                     // returned by the gateway
	FXFallback                 // the policy fallback
)

func (s FXSource) String() string {
	switch s {
	case FXLive:
		return "live"
	case FXFallback:
		return "fallback"
	default:
		return "none"
	}
}

// MarketSnapshot is the market data for one valuation. It is never persisted.
type MarketSnapshot struct {
	// FX is the domestic-per-foreign rate.
	FX       Metric[decimal.Decimal]
	FXSource FXSource
	// FXQuoted is the rate as quoted for FXPair, before inversion.
	FXQuoted decimal.Decimal
	FXPair   Pair

	Prices    map[string]decimal.Decimal
	Dividends map[string]decimal.Decimal

	// Missing lists the requested tickers without a price.
	Missing []string
	// Errors collects the failures caught at the gateway boundary.
	Errors []error
}

// NewMarketSnapshot returns a snapshot with a known domestic-per-foreign rate.
// It is mostly useful to build snapshots by hand.
func NewMarketSnapshot(fx decimal.Decimal) *MarketSnapshot {
	return &MarketSnapshot{
		FX:        Known(fx),
		FXSource:  FXLive,
		Prices:    make(map[string]decimal.Decimal),
		Dividends: make(map[string]decimal.Decimal),
	}
}

// Price returns the native current price of ticker, if known.
func (s *MarketSnapshot) Price(ticker string) (decimal.Decimal, bool) {
	p, ok := s.Prices[ticker]
	return p, ok
}

// DividendRate returns the native annual dividend per share, 0 when unknown.
func (s *MarketSnapshot) DividendRate(ticker string) decimal.Decimal {
	return s.Dividends[ticker]
}

// FetchSnapshot queries the gateway once for prices, once for dividends and
// once for the exchange rate.
//
// Failures never abort the fetch: they are logged, recorded in Errors, and
// degrade to unknown values. Negative prices and non positive rates are
// dropped. A zero price is kept: the security is worth nothing.
func FetchSnapshot(ctx context.Context, gw QuoteGateway, cm CurrencyModel, policy FXPolicy, tickers []string, log zerolog.Logger) *MarketSnapshot {
	snap := &MarketSnapshot{
		FX:        Unavailable[decimal.Decimal](),
		FXPair:    policy.Quoted,
		Prices:    make(map[string]decimal.Decimal),
		Dividends: make(map[string]decimal.Decimal),
	}

	if len(tickers) > 0 {
		prices, err := gw.Prices(ctx, tickers)
		if err != nil {
			log.Warn().Err(err).Strs("tickers", tickers).Msg("prices unavailable")
			snap.Errors = append(snap.Errors, fmt.Errorf("fetching prices: %w", err))
		}
		for _, t := range tickers {
			p, ok := prices[t]
			if !ok || p.IsNegative() {
				snap.Missing = append(snap.Missing, t)
				continue
			}
			snap.Prices[t] = p
		}
		if len(snap.Missing) > 0 {
			log.Warn().Strs("tickers", snap.Missing).Msg("no price for some tickers")
		}

		dividends, err := gw.Dividends(ctx, tickers)
		if err != nil {
			log.Warn().Err(err).Msg("dividends unavailable, assuming none")
			snap.Errors = append(snap.Errors, fmt.Errorf("fetching dividends: %w", err))
		}
		for _, t := range tickers {
			if d, ok := dividends[t]; ok && !d.IsNegative() {
				snap.Dividends[t] = d
			}
		}
	}

	rate, err := gw.ExchangeRate(ctx, policy.Quoted)
	switch {
	case err != nil:
		snap.Errors = append(snap.Errors, fmt.Errorf("fetching %s rate: %w", policy.Quoted, err))
	case !rate.IsPositive():
		err = fmt.Errorf("non positive %s rate %v", policy.Quoted, rate)
		snap.Errors = append(snap.Errors, err)
	default:
		snap.FXQuoted, snap.FXSource = rate, FXLive
	}
	if snap.FXSource != FXLive {
		if policy.Fallback.IsPositive() {
			log.Warn().Err(err).Str("pair", policy.Quoted.String()).Stringer("fallback", policy.Fallback).Msg("using fallback exchange rate")
			snap.FXQuoted, snap.FXSource = policy.Fallback, FXFallback
		} else {
			log.Warn().Err(err).Str("pair", policy.Quoted.String()).Msg("exchange rate unavailable")
		}
	}
	if snap.FXSource != FXNone {
		fx, err := DomesticPerForeign(cm, policy.Quoted, snap.FXQuoted)
		if err != nil {
			snap.Errors = append(snap.Errors, err)
		} else {
			snap.FX = fx
		}
	}
	return snap
}

// DomesticPerForeign turns a rate quoted for pair into the rate of cm.Pair(),
// inverting it when the pair is quoted foreign-per-domestic.
func DomesticPerForeign(cm CurrencyModel, pair Pair, rate decimal.Decimal) (Metric[decimal.Decimal], error) {
	switch pair {
	case cm.Pair():
		return Known(rate), nil
	case cm.Pair().Inverse():
		return Invert(rate), nil
	}
	return Unavailable[decimal.Decimal](), fmt.Errorf("%w: pair %s does not convert %s into %s", ErrInvalidInput, pair, cm.Foreign, cm.Domestic)
}
