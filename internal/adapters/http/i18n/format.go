package i18n

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/number"
)

// Cents rounds a USD amount half away from zero to two decimals. NaN and
// the infinities have no decimal form and render as 0.
func Cents(v float64) decimal.Decimal {
	return rounded(v, 2)
}

// USD formats a USD amount for l with grouping and exactly two decimals.
func (l Locale) USD(v float64) string {
	return l.Printer().Sprint(number.Decimal(Cents(v).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Number formats a TBC amount or a percent for l with up to four decimals.
func (l Locale) Number(v float64) string {
	return l.Printer().Sprint(number.Decimal(rounded(v, 4).InexactFloat64(),
		number.MaxFractionDigits(4)))
}

func rounded(v float64, places int32) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(places)
}
