// Package quotecache decorates a quote gateway with an in-memory cache.
//
// Entries are kept per ticker (or per pair for exchange rates), so that a
// partial answer only caches what was found. A zero TTL disables the cache for
// that kind of data.
package quotecache

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/bluechip"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TTL is the time to live of each kind of data.
type TTL struct {
	Prices    time.Duration
	Dividends time.Duration
	FX        time.Duration
}

// DefaultTTL caches exchange rates for an hour and dividends for a day.
// Prices are always fetched.
var DefaultTTL = TTL{FX: time.Hour, Dividends: 24 * time.Hour}

type entry struct {
	value   decimal.Decimal
	fetched time.Time
}

// Gateway is a caching bluechip.QuoteGateway.
type Gateway struct {
	next bluechip.QuoteGateway
	ttl  TTL
	log  zerolog.Logger
	now  func() time.Time

	mu        sync.Mutex
	prices    map[string]entry
	dividends map[string]entry
	rates     map[bluechip.Pair]entry
}

// New returns a caching gateway in front of next.
func New(next bluechip.QuoteGateway, ttl TTL, log zerolog.Logger) *Gateway {
	return &Gateway{
		next:      next,
		ttl:       ttl,
		log:       log.With().Str("component", "quotecache").Logger(),
		now:       time.Now,
		prices:    make(map[string]entry),
		dividends: make(map[string]entry),
		rates:     make(map[bluechip.Pair]entry),
	}
}

var _ bluechip.QuoteGateway = (*Gateway)(nil)

func (g *Gateway) Prices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	return g.lookup(ctx, g.prices, g.ttl.Prices, tickers, g.next.Prices)
}

func (g *Gateway) Dividends(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	return g.lookup(ctx, g.dividends, g.ttl.Dividends, tickers, g.next.Dividends)
}

func (g *Gateway) ExchangeRate(ctx context.Context, pair bluechip.Pair) (decimal.Decimal, error) {
	g.mu.Lock()
	e, ok := g.rates[pair]
	g.mu.Unlock()
	if ok && g.fresh(e, g.ttl.FX) {
		g.log.Debug().Str("pair", pair.String()).Msg("cache hit")
		return e.value, nil
	}

	rate, err := g.next.ExchangeRate(ctx, pair)
	if err != nil {
		return rate, err
	}
	if g.ttl.FX > 0 {
		g.mu.Lock()
		g.rates[pair] = entry{value: rate, fetched: g.now()}
		g.mu.Unlock()
	}
	return rate, nil
}

// Invalidate drops every entry.
func (g *Gateway) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.prices)
	clear(g.dividends)
	clear(g.rates)
}

func (g *Gateway) fresh(e entry, ttl time.Duration) bool {
	return ttl > 0 && g.now().Sub(e.fetched) < ttl
}

// lookup serves the fresh tickers from cache and asks fetch for the others,
// in a single call.
func (g *Gateway) lookup(ctx context.Context, cache map[string]entry, ttl time.Duration, tickers []string,
	fetch func(context.Context, []string) (map[string]decimal.Decimal, error)) (map[string]decimal.Decimal, error) {

	res := make(map[string]decimal.Decimal, len(tickers))
	var missing []string
	g.mu.Lock()
	for _, t := range tickers {
		if e, ok := cache[t]; ok && g.fresh(e, ttl) {
			res[t] = e.value
			continue
		}
		missing = append(missing, t)
	}
	g.mu.Unlock()

	if len(missing) == 0 {
		g.log.Debug().Strs("tickers", tickers).Msg("cache hit")
		return res, nil
	}

	fetched, err := fetch(ctx, missing)
	if err != nil {
		if len(res) > 0 {
			// what is cached is still usable.
			g.log.Warn().Err(err).Strs("tickers", missing).Msg("partial refresh")
			return res, nil
		}
		return nil, err
	}
	g.mu.Lock()
	now := g.now()
	for t, v := range fetched {
		res[t] = v
		if ttl > 0 {
			cache[t] = entry{value: v, fetched: now}
		}
	}
	g.mu.Unlock()
	return res, nil
}
