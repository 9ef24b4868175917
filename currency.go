package bluechip

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Pair is a currency pair as quoted by market data providers: one unit of
// Base is worth "rate" units of Quote. EURUSD at 1.08 means 1 EUR = 1.08 USD.
type Pair struct {
	Base, Quote string
}

// NewPair returns the pair of two ISO 4217 codes.
func NewPair(base, quote string) (Pair, error) {
	base, quote = strings.ToUpper(base), strings.ToUpper(quote)
	if len(base) != 3 || len(quote) != 3 {
		return Pair{}, fmt.Errorf("%w: invalid currency pair %s/%s", ErrInvalidInput, base, quote)
	}
	if base == quote {
		return Pair{}, fmt.Errorf("%w: currency pair of identical currencies %s", ErrInvalidInput, base)
	}
	return Pair{Base: base, Quote: quote}, nil
}

// ParsePair parses the usual six letters notation ("EURUSD").
func ParsePair(s string) (Pair, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "=X")
	s = strings.ReplaceAll(s, "/", "")
	if len(s) != 6 {
		return Pair{}, fmt.Errorf("%w: invalid currency pair %q", ErrInvalidInput, s)
	}
	return NewPair(s[:3], s[3:])
}

func (p Pair) String() string { return p.Base + p.Quote }

// Inverse returns the pair quoted the other way around.
func (p Pair) Inverse() Pair { return Pair{Base: p.Quote, Quote: p.Base} }

// Invert converts a rate quoted for p into the rate of p.Inverse().
// The rate of a zero quote is undefined.
func Invert(rate decimal.Decimal) Metric[decimal.Decimal] {
	if rate.IsZero() {
		return Undefined[decimal.Decimal]()
	}
	return Known(decimal.NewFromInt(1).Div(rate))
}

// CurrencyModel is the closed two currency model: every amount is either in
// the domestic (reporting) currency or in the single foreign currency.
type CurrencyModel struct {
	Domestic string
	Foreign  string
	// DomesticSuffixes are the ticker suffixes of securities quoted in the
	// domestic currency (".PA" for Euronext Paris).
	DomesticSuffixes []string
}

// DefaultCurrencies reports in euros, with US securities in dollars.
var DefaultCurrencies = CurrencyModel{
	Domestic:         "EUR",
	Foreign:          "USD",
	DomesticSuffixes: []string{".PA"},
}

// Native returns the currency a ticker is quoted in. It is a total function:
// any ticker not matching a domestic suffix is foreign.
func (c CurrencyModel) Native(ticker string) string {
	ticker = strings.ToUpper(ticker)
	for _, suffix := range c.DomesticSuffixes {
		if strings.HasSuffix(ticker, strings.ToUpper(suffix)) {
			return c.Domestic
		}
	}
	return c.Foreign
}

// Pair returns the pair whose rate is domestic-per-foreign (USDEUR by default).
func (c CurrencyModel) Pair() Pair { return Pair{Base: c.Foreign, Quote: c.Domestic} }

// ToDomestic converts an amount in its native currency into the domestic one.
// fx is the domestic-per-foreign rate. Domestic amounts are returned unchanged
// whatever the rate.
func (c CurrencyModel) ToDomestic(amount Money, fx decimal.Decimal) Money {
	if amount.cur == c.Domestic {
		return amount
	}
	return Money{value: amount.value.Mul(fx), cur: c.Domestic}
}

// toDomestic is ToDomestic with a possibly unknown rate.
func (c CurrencyModel) toDomestic(amount Money, fx Metric[decimal.Decimal]) Metric[Money] {
	if amount.cur == c.Domestic {
		return Known(amount)
	}
	return then(fx, func(rate decimal.Decimal) Metric[Money] {
		return Known(c.ToDomestic(amount, rate))
	})
}
