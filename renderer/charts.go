package renderer

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/etnz/bluechip"
)

// Chart is a horizontal bar chart drawn with text.
type Chart struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// barWidth is the length of the longest bar.
const barWidth = 30

type bar struct {
	label string
	value float64
	text  string
}

// newChart scales the bars to the longest one. Negative bars are drawn with a
// lighter block. It returns false when there is nothing to draw.
func newChart(title string, bars []bar) (Chart, bool) {
	if len(bars) == 0 {
		return Chart{}, false
	}
	var labelWidth int
	var longest float64
	for _, b := range bars {
		labelWidth = max(labelWidth, utf8.RuneCountInString(b.label))
		longest = max(longest, math.Abs(b.value))
	}
	c := Chart{Title: title}
	for _, b := range bars {
		n := 0
		if longest > 0 {
			n = int(math.Round(math.Abs(b.value) / longest * barWidth))
		}
		block := "█"
		if b.value < 0 {
			block = "░"
		}
		line := fmt.Sprintf("%-*s %s %s", labelWidth, b.label, strings.Repeat(block, n), b.text)
		c.Lines = append(c.Lines, strings.TrimRight(line, " "))
	}
	return c, true
}

// newCharts draws the charts of the dashboard, one bar per ticker.
func newCharts(v *bluechip.View) []Chart {
	rows := v.Consolidate().Sorted()

	var allocation, gains, dividends, yields, prices, weights []bar
	if w, ok := v.CashWeight.Value(); ok && v.Cash.IsPositive() {
		allocation = append(allocation, bar{"Cash", float64(w), w.String()})
	}
	for _, m := range rows {
		if w, ok := m.Weight.Value(); ok {
			allocation = append(allocation, bar{m.Ticker, float64(w), w.String()})
		}
		if g, ok := m.Gain.Value(); ok {
			gains = append(gains, bar{m.Ticker, g.AsFloat(), g.SignedString()})
		}
		if d, ok := m.AnnualDividend.Value(); ok && d.IsPositive() {
			dividends = append(dividends, bar{m.Ticker, d.AsFloat(), d.String()})
		}
		if y, ok := m.Yield.Value(); ok && y > 0 {
			yields = append(yields, bar{m.Ticker, float64(y), y.String()})
		}
		if p, ok := m.PurchasePriceDomestic.Value(); ok {
			prices = append(prices, bar{m.Ticker + " paid", p.AsFloat(), p.String()})
		}
		if p, ok := m.PriceDomestic.Value(); ok {
			prices = append(prices, bar{m.Ticker + " now", p.AsFloat(), p.String()})
		}
		if w, ok := m.Weight.Value(); ok {
			weights = append(weights, bar{m.Ticker, float64(w), fmt.Sprintf("%s, performance %s", w, m.Performance.SignedString())})
		}
	}
	capital := []bar{
		{"Invested", v.Invested.AsFloat(), v.Invested.String()},
		{"Gain", v.Gain.AsFloat(), v.Gain.SignedString()},
		{"Total", v.Total.AsFloat(), v.Total.String()},
	}

	var charts []Chart
	for _, c := range []struct {
		title string
		bars  []bar
	}{
		{"Allocation", allocation},
		{"Unrealized gain", gains},
		{"Annual dividends", dividends},
		{"Dividend yield", yields},
		{"Purchase and market price", prices},
		{"Invested capital and gain", capital},
		{"Weight and performance", weights},
	} {
		if chart, ok := newChart(c.title, c.bars); ok {
			charts = append(charts, chart)
		}
	}
	return charts
}
