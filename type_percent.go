package bluechip

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio already multiplied by 100.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

var hundred = decimal.NewFromInt(100)

// ratio returns num/den*100, or an undefined ratio when den is zero.
func ratio(num, den decimal.Decimal) Metric[Percent] {
	if den.IsZero() {
		return Undefined[Percent]()
	}
	return Known(Percent(num.Div(den).Mul(hundred).InexactFloat64()))
}
