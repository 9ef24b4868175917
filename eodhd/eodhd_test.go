package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/bluechip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestClient returns a client of the handler, with a disk cache in a
// temporary folder.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{
		APIKey:  "secret",
		BaseURL: srv.URL,
		HTTP:    srv.Client(),
		Daily: &http.Client{Transport: &diskCache{
			base: http.DefaultTransport,
			dir:  t.TempDir(),
			now:  func() time.Time { return today },
			log:  zerolog.Nop(),
		}},
		log: zerolog.Nop(),
		now: func() time.Time { return today },
	}
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "MSFT.US", Symbol("MSFT"))
	assert.Equal(t, "MC.PA", Symbol("MC.PA"))
}

func TestClient_Prices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/real-time/MSFT.US", r.URL.Path)
		assert.Equal(t, "MC.PA,XXXX.US", r.URL.Query().Get("s"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_token"))
		fmt.Fprint(w, `[
			{"code":"MSFT.US","timestamp":1717185600,"close":420.5,"previousClose":415},
			{"code":"MC.PA","timestamp":1717185600,"close":"NA","previousClose":650.2},
			{"code":"XXXX.US","timestamp":"NA","close":"NA","previousClose":"NA"}
		]`)
	})

	prices, err := c.Prices(context.Background(), []string{"MSFT", "MC.PA", "XXXX"})
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.Equal(t, "420.5", prices["MSFT"].String())
	assert.Equal(t, "650.2", prices["MC.PA"].String())
}

func TestClient_Prices_SingleObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("s"))
		fmt.Fprint(w, `{"code":"MSFT.US","close":420}`)
	})

	prices, err := c.Prices(context.Background(), []string{"MSFT"})
	require.NoError(t, err)
	assert.Equal(t, "420", prices["MSFT"].String())
}

func TestClient_Prices_Failure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := c.Prices(context.Background(), []string{"MSFT"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_Dividends(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("from"))
		switch r.URL.Path {
		case "/div/MSFT.US":
			fmt.Fprint(w, `[
				{"date":"2024-05-15","value":0.75,"currency":"USD"},
				{"date":"2024-08-15","value":0.75,"currency":"USD"},
				{"date":"2024-11-20","value":0.83,"currency":"USD"},
				{"date":"2025-02-20","value":0.83,"currency":"USD"},
				{"date":"2025-05-15","value":0.83,"currency":"USD"}
			]`)
		case "/div/NVDA.US":
			fmt.Fprint(w, `[]`)
		default:
			http.NotFound(w, r)
		}
	})

	divs, err := c.Dividends(context.Background(), []string{"MSFT", "NVDA", "GONE"})
	require.NoError(t, err)
	assert.Equal(t, "3.24", divs["MSFT"].String())
	assert.True(t, divs["NVDA"].IsZero())
	assert.NotContains(t, divs, "GONE")

	// served from the disk cache.
	before := calls.Load()
	_, err = c.Dividends(context.Background(), []string{"MSFT"})
	require.NoError(t, err)
	assert.Equal(t, before, calls.Load())
}

func TestClient_Dividends_AllFailing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Dividends(context.Background(), []string{"MSFT", "V"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "MSFT") && strings.Contains(err.Error(), "V:"))
}

func TestClient_ExchangeRate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/real-time/EURUSD.FOREX", r.URL.Path)
		fmt.Fprint(w, `{"code":"EURUSD.FOREX","close":1.0852}`)
	})

	rate, err := c.ExchangeRate(context.Background(), bluechip.Pair{Base: "EUR", Quote: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "1.0852", rate.String())
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/lvmh", r.URL.Path)
		fmt.Fprint(w, `[
			{"Code":"MC","Exchange":"PA","Name":"LVMH Moet Hennessy Louis Vuitton SE","Currency":"EUR","ISIN":"FR0000121014"},
			{"Code":"LVMUY","Exchange":"US","Name":"LVMH Moet Hennessy Louis Vuitton SE ADR","Currency":"USD"}
		]`)
	})

	results, err := c.Search(context.Background(), "lvmh")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "MC.PA", results[0].Ticker())
	assert.Equal(t, "LVMUY", results[1].Ticker())
}

func TestDiskCache_Expires(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	now := today
	client := &http.Client{Transport: &diskCache{
		base: http.DefaultTransport,
		dir:  t.TempDir(),
		ttl:  time.Hour,
		now:  func() time.Time { return now },
		log:  zerolog.Nop(),
	}}
	var v []any
	require.NoError(t, jwget(context.Background(), client, srv.URL+"/x", &v))
	require.NoError(t, jwget(context.Background(), client, srv.URL+"/x", &v))
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(time.Hour)
	require.NoError(t, jwget(context.Background(), client, srv.URL+"/x", &v))
	assert.Equal(t, int32(2), calls.Load())
}
