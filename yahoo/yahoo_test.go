package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/bluechip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-01
var today = time.Unix(1748736000, 0)

func newTestClient(t *testing.T, charts map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		chart, ok := charts[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.Error(w, `{"chart":{"result":null,"error":{"code":"Not Found"}}}`, http.StatusNotFound)
			return
		}
		fmt.Fprint(w, chart)
	}))
	t.Cleanup(srv.Close)

	c := New(time.Second, zerolog.Nop())
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()
	c.now = func() time.Time { return today }
	return c
}

const msftChart = `{"chart":{"result":[{
	"meta":{"currency":"USD","symbol":"MSFT","regularMarketPrice":420.5},
	"timestamp":[1748563200,1748649600],
	"events":{"dividends":{
		"1715731200":{"amount":0.75,"date":1715731200},
		"1723680000":{"amount":0.75,"date":1723680000},
		"1732060800":{"amount":0.83,"date":1732060800},
		"1739980800":{"amount":0.83,"date":1739980800},
		"1747267200":{"amount":0.83,"date":1747267200}
	}},
	"indicators":{"quote":[{"close":[418.2,420.5]}]}
}],"error":null}}`

// no regular market price, last close is null.
const mcChart = `{"chart":{"result":[{
	"meta":{"currency":"EUR","symbol":"MC.PA"},
	"timestamp":[1748563200,1748649600,1748736000],
	"indicators":{"quote":[{"close":[648.1,650.2,null]}]}
}],"error":null}}`

const fxChart = `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"EURUSD=X","regularMarketPrice":1.0852}}],"error":null}}`

func TestClient_Prices(t *testing.T) {
	c := newTestClient(t, map[string]string{"MSFT": msftChart, "MC.PA": mcChart})

	prices, err := c.Prices(context.Background(), []string{"MSFT", "MC.PA", "XXXX"})
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.Equal(t, "420.5", prices["MSFT"].String())
	assert.Equal(t, "650.2", prices["MC.PA"].String())
}

func TestClient_Prices_AllFailing(t *testing.T) {
	c := newTestClient(t, nil)

	_, err := c.Prices(context.Background(), []string{"XXXX", "YYYY"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XXXX")
	assert.Contains(t, err.Error(), "YYYY")
}

func TestClient_Dividends(t *testing.T) {
	c := newTestClient(t, map[string]string{"MSFT": msftChart, "MC.PA": mcChart})

	divs, err := c.Dividends(context.Background(), []string{"MSFT", "MC.PA"})
	require.NoError(t, err)
	// the May 2024 dividend is more than a year old.
	assert.Equal(t, "3.24", divs["MSFT"].String())
	assert.True(t, divs["MC.PA"].IsZero())
}

func TestClient_ExchangeRate(t *testing.T) {
	c := newTestClient(t, map[string]string{"EURUSD=X": fxChart})

	rate, err := c.ExchangeRate(context.Background(), bluechip.Pair{Base: "EUR", Quote: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "1.0852", rate.String())

	_, err = c.ExchangeRate(context.Background(), bluechip.Pair{Base: "GBP", Quote: "USD"})
	assert.Error(t, err)
}

func TestLastPrice_NoResult(t *testing.T) {
	for _, chart := range []string{
		`{"chart":{"result":[],"error":null}}`,
		`{"chart":{"result":[{"meta":{},"indicators":{"quote":[{"close":[null,null]}]}}]}}`,
	} {
		c := newTestClient(t, map[string]string{"X": chart})
		_, err := c.Prices(context.Background(), []string{"X"})
		assert.ErrorIs(t, err, ErrNoResult, chart)
	}
}
