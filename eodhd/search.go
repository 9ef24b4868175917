package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code          string  `json:"Code"`
	Exchange      string  `json:"Exchange"`
	Name          string  `json:"Name"`
	Type          string  `json:"Type"`
	Country       string  `json:"Country"`
	Currency      string  `json:"Currency"`
	ISIN          string  `json:"ISIN"`
	PreviousClose float64 `json:"previousClose"`
}

// Ticker returns the ticker in the portfolio notation: US securities have no
// suffix.
func (r SearchResult) Ticker() string {
	if strings.EqualFold(r.Exchange, "US") {
		return r.Code
	}
	return r.Code + "." + r.Exchange
}

// Search searches for securities via EOD Historical Data API.
func (c *Client) Search(ctx context.Context, searchTerm string) ([]SearchResult, error) {
	apiURL := fmt.Sprintf("%s/search/%s?api_token=%s&fmt=json", c.BaseURL, url.PathEscape(searchTerm), url.QueryEscape(c.APIKey))

	var results []SearchResult
	if err := jwget(ctx, c.Daily, apiURL, &results); err != nil {
		return nil, err
	}
	return results, nil
}
