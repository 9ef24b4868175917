package bluechip

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// PositionMetrics holds the derived figures of one position.
//
// Amounts suffixed with Domestic, and Value, Gain, AnnualDividend are in the
// domestic currency. Price and PurchasePrice are native.
type PositionMetrics struct {
	// Index is the position index in State.Positions.
	Index    int
	Ticker   string
	Currency string // native currency
	Quantity Quantity

	PurchasePrice         Money
	PurchasePriceDomestic Metric[Money]
	Price                 Metric[Money]
	PriceDomestic         Metric[Money]

	Value       Metric[Money]   // quantity × current domestic price
	Gain        Metric[Money]   // unrealized profit and loss
	Performance Metric[Percent] // gain over purchase price

	DividendRate         Money         // native annual dividend per share, 0 when unknown
	DividendRateDomestic Metric[Money] // per share
	AnnualDividend       Metric[Money] // for the whole position
	Yield                Metric[Percent]

	// Weight is Value over the total portfolio value, cash included.
	Weight Metric[Percent]
}

// View is the fully derived valuation of a portfolio for one refresh cycle.
//
// Positions whose price is unknown are excluded from every value aggregate
// (Equity, Total, Gain, ROI, weights); their tickers are listed in Unpriced.
// Dividends do not depend on prices and are always summed.
type View struct {
	Currency string // domestic
	Foreign  string
	FX       Metric[decimal.Decimal] // domestic per foreign
	FXSource FXSource

	// Positions in State order.
	Positions []PositionMetrics

	Cash     Money
	Invested Money

	Equity     Money           // total value of the priced positions
	Total      Money           // Equity + Cash
	Gain       Money           // Total - Invested
	ROI        Metric[Percent] // Gain over Invested
	Dividends  Money           // total annual dividend income
	CashWeight Metric[Percent] // Cash over Total

	Unpriced []string

	cm    CurrencyModel
	snap  *MarketSnapshot
	state State
}

// NewView values the state s against the market snapshot.
//
// It is a pure function: the same inputs always produce the same View.
func NewView(cm CurrencyModel, s State, snap *MarketSnapshot) *View {
	if snap == nil {
		snap = &MarketSnapshot{FX: Unavailable[decimal.Decimal]()}
	}
	zero := M(0, cm.Domestic)
	v := &View{
		Currency:  cm.Domestic,
		Foreign:   cm.Foreign,
		FX:        snap.FX,
		FXSource:  snap.FXSource,
		Positions: make([]PositionMetrics, 0, len(s.Positions)),
		Cash:      M(s.Cash, cm.Domestic),
		Invested:  M(s.TotalInvested, cm.Domestic),
		Equity:    zero,
		Dividends: zero,
		cm:        cm,
		snap:      snap,
		state:     s,
	}

	for i, p := range s.Positions {
		m := evaluatePosition(cm, snap, p)
		m.Index = i
		v.Positions = append(v.Positions, m)
	}

	// Aggregates are folded from the very rows exposed above.
	for _, m := range v.Positions {
		if value, ok := m.Value.Value(); ok {
			v.Equity = v.Equity.Add(value)
		} else {
			v.Unpriced = append(v.Unpriced, m.Ticker)
		}
		if div, ok := m.AnnualDividend.Value(); ok {
			v.Dividends = v.Dividends.Add(div)
		}
	}
	v.Total = v.Equity.Add(v.Cash)
	v.Gain = v.Total.Sub(v.Invested)
	v.ROI = ratio(v.Gain.value, v.Invested.value)
	v.CashWeight = ratio(v.Cash.value, v.Total.value)

	for i := range v.Positions {
		v.Positions[i].Weight = then(v.Positions[i].Value, func(value Money) Metric[Percent] {
			return ratio(value.value, v.Total.value)
		})
	}
	return v
}

// evaluatePosition computes the per position metrics, except the weight.
func evaluatePosition(cm CurrencyModel, snap *MarketSnapshot, p Position) PositionMetrics {
	native := cm.Native(p.Ticker)
	m := PositionMetrics{
		Ticker:        p.Ticker,
		Currency:      native,
		Quantity:      p.Quantity,
		PurchasePrice: M(p.PurchasePrice, native),
		DividendRate:  M(snap.DividendRate(p.Ticker), native),
		Price:         Unavailable[Money](),
	}
	if price, ok := snap.Price(p.Ticker); ok {
		m.Price = Known(M(price, native))
	}

	m.PurchasePriceDomestic = cm.toDomestic(m.PurchasePrice, snap.FX)
	m.PriceDomestic = then(m.Price, func(price Money) Metric[Money] {
		return cm.toDomestic(price, snap.FX)
	})
	m.Value = then(m.PriceDomestic, func(price Money) Metric[Money] {
		return Known(price.Mul(p.Quantity))
	})

	diff := both(m.PriceDomestic, m.PurchasePriceDomestic, func(price, purchase Money) Metric[Money] {
		return Known(price.Sub(purchase))
	})
	m.Gain = then(diff, func(d Money) Metric[Money] { return Known(d.Mul(p.Quantity)) })
	m.Performance = both(diff, m.PurchasePriceDomestic, func(d, purchase Money) Metric[Percent] {
		return ratio(d.value, purchase.value)
	})

	m.DividendRateDomestic = cm.toDomestic(m.DividendRate, snap.FX)
	m.AnnualDividend = then(m.DividendRateDomestic, func(div Money) Metric[Money] {
		return Known(div.Mul(p.Quantity))
	})
	m.Yield = both(m.DividendRateDomestic, m.PriceDomestic, func(div, price Money) Metric[Percent] {
		return ratio(div.value, price.value)
	})
	return m
}

// IsEmpty reports whether the portfolio has no position.
func (v *View) IsEmpty() bool { return len(v.Positions) == 0 }

// State returns the valued state.
func (v *View) State() State { return v.state }

// Sorted returns the positions sorted by ticker, lots of the same ticker in
// State order.
func (v *View) Sorted() []PositionMetrics {
	rows := slices.Clone(v.Positions)
	slices.SortStableFunc(rows, func(a, b PositionMetrics) int { return cmp.Compare(a.Ticker, b.Ticker) })
	return rows
}

// Consolidate returns the view of the same portfolio where lots sharing a
// ticker are merged into a single position. The merged purchase price is the
// quantity weighted average of the lots. Index is the index of the first lot.
func (v *View) Consolidate() *View {
	merged := State{Cash: v.state.Cash, TotalInvested: v.state.TotalInvested}
	first := make(map[string]int)
	cost := make(map[string]decimal.Decimal)
	var index []int
	for i, p := range v.state.Positions {
		j, ok := first[p.Ticker]
		if !ok {
			first[p.Ticker] = len(merged.Positions)
			merged.Positions = append(merged.Positions, p)
			cost[p.Ticker] = p.PurchasePrice.Mul(p.Quantity.value)
			index = append(index, i)
			continue
		}
		q := merged.Positions[j].Quantity.Add(p.Quantity)
		cost[p.Ticker] = cost[p.Ticker].Add(p.PurchasePrice.Mul(p.Quantity.value))
		merged.Positions[j].Quantity = q
		if !q.IsZero() {
			merged.Positions[j].PurchasePrice = cost[p.Ticker].Div(q.value)
		}
	}
	cv := NewView(v.cm, merged, v.snap)
	for i := range cv.Positions {
		cv.Positions[i].Index = index[i]
	}
	cv.state = v.state
	return cv
}
