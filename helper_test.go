package bluechip

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// dec parses a decimal const.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func approxEqual(a, b, tolerance float64) bool { return math.Abs(a-b) <= tolerance }

// must unwraps a known metric, or panics.
func must[T any](m Metric[T]) T {
	v, err := m.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// fakeGateway serves fixed market data, and counts calls.
type fakeGateway struct {
	prices    map[string]decimal.Decimal
	dividends map[string]decimal.Decimal
	rates     map[Pair]decimal.Decimal

	pricesErr, dividendsErr, rateErr error

	calls map[string]int
}

var errNetwork = errors.New("network is down")

func (g *fakeGateway) count(name string) {
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[name]++
}

func (g *fakeGateway) Prices(_ context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	g.count("prices")
	if g.pricesErr != nil {
		return nil, g.pricesErr
	}
	res := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		if p, ok := g.prices[t]; ok {
			res[t] = p
		}
	}
	return res, nil
}

func (g *fakeGateway) Dividends(_ context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	g.count("dividends")
	if g.dividendsErr != nil {
		return nil, g.dividendsErr
	}
	res := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		if d, ok := g.dividends[t]; ok {
			res[t] = d
		}
	}
	return res, nil
}

func (g *fakeGateway) ExchangeRate(_ context.Context, pair Pair) (decimal.Decimal, error) {
	g.count("fx")
	if g.rateErr != nil {
		return decimal.Zero, g.rateErr
	}
	r, ok := g.rates[pair]
	if !ok {
		return decimal.Zero, errors.New("unknown pair " + pair.String())
	}
	return r, nil
}
