package renderer

import (
	"fmt"

	"github.com/etnz/bluechip"
)

// Dashboard is the presentation of a View. Figures are already formatted:
// "n/a" for undefined ratios, "unknown" for missing market data.
type Dashboard struct {
	Currency  string         `json:"currency"`
	Total     bluechip.Money `json:"total"`
	Equity    bluechip.Money `json:"equity"`
	Cash      bluechip.Money `json:"cash"`
	Invested  bluechip.Money `json:"invested"`
	Gain      string         `json:"gain"`
	ROI       string         `json:"roi"`
	Dividends bluechip.Money `json:"dividends"`
	// FX describes the exchange rate used, and where it comes from.
	FX string `json:"fx"`
	// Unpriced are the tickers left out of the totals.
	Unpriced []string `json:"unpriced,omitempty"`
	// Rows starts with the cash, then the positions sorted by ticker.
	Rows   []Row   `json:"rows"`
	Charts []Chart `json:"charts"`
	Empty  bool    `json:"empty"`
}

// Row is a line of the positions table.
type Row struct {
	Ticker        string `json:"ticker"`
	Quantity      string `json:"quantity"`
	Yield         string `json:"yield"`
	PurchasePrice string `json:"purchasePrice"`
	Price         string `json:"price"`
	Value         string `json:"value"`
	Gain          string `json:"gain"`
	Performance   string `json:"performance"`
	Weight        string `json:"weight"`
}

// NewDashboard formats the view.
func NewDashboard(v *bluechip.View) *Dashboard {
	d := &Dashboard{
		Currency:  v.Currency,
		Total:     v.Total,
		Equity:    v.Equity,
		Cash:      v.Cash,
		Invested:  v.Invested,
		Gain:      v.Gain.SignedString(),
		ROI:       v.ROI.SignedString(),
		Dividends: v.Dividends,
		FX:        describeFX(v),
		Unpriced:  v.Unpriced,
		Empty:     v.IsEmpty(),
	}
	if d.Empty {
		return d
	}

	d.Rows = append(d.Rows, Row{
		Ticker: "Cash",
		Value:  v.Cash.String(),
		Weight: v.CashWeight.String(),
	})
	for _, m := range v.Sorted() {
		d.Rows = append(d.Rows, Row{
			Ticker:        m.Ticker,
			Quantity:      m.Quantity.String(),
			Yield:         m.Yield.String(),
			PurchasePrice: m.PurchasePrice.String(),
			Price:         m.Price.String(),
			Value:         m.Value.String(),
			Gain:          m.Gain.SignedString(),
			Performance:   m.Performance.SignedString(),
			Weight:        m.Weight.String(),
		})
	}
	d.Charts = newCharts(v)
	return d
}

func describeFX(v *bluechip.View) string {
	fx, err := v.FX.Get()
	if err != nil {
		return fmt.Sprintf("exchange rate unknown: %s amounts are not converted", v.Foreign)
	}
	return fmt.Sprintf("1 %s = %s %s (%s)", v.Foreign, fx.StringFixed(4), v.Currency, v.FXSource)
}

// PositionList is the stored positions, with the index to remove them.
type PositionList struct {
	Cash      string
	Invested  string
	Positions []PositionItem
}

// PositionItem is a stored position.
type PositionItem struct {
	Index         int
	Ticker        string
	Quantity      bluechip.Quantity
	PurchasePrice string
}

// NewPositionList formats the state s.
func NewPositionList(s bluechip.State) *PositionList {
	l := &PositionList{
		Cash:     s.Cash.String(),
		Invested: s.TotalInvested.String(),
	}
	for i, p := range s.Positions {
		l.Positions = append(l.Positions, PositionItem{
			Index:         i,
			Ticker:        p.Ticker,
			Quantity:      p.Quantity,
			PurchasePrice: p.PurchasePrice.String(),
		})
	}
	return l
}
