// Package commission derives the buyer commission table from its base inputs.
//
// Derivation is a pure function: the same inputs always yield the same rows
// and the input slices are never modified.
package commission

import "math"

const percentScale = 100

// Params carries the collaborators shared with other categories.
type Params struct {
	// TokenPrice is the USD price of one TBC.
	TokenPrice float64
	// BonusPercent is the additive event bonus; 0 when no event is active.
	BonusPercent float64
}

// Row is one derived package tier.
type Row struct {
	Package                 int     `json:"package"`
	AmountTBC               float64 `json:"amountTBC"`
	ValueUSD                float64 `json:"valueUSD"`
	StandardPercent         float64 `json:"standardPercent"`
	StandardAmountTBC       float64 `json:"standardAmountTBC"`
	StandardValueUSD        float64 `json:"standardValueUSD"`
	DiscountPercent         float64 `json:"discountPercent"`
	DiscountAmountTBC       float64 `json:"discountAmountTBC"`
	DiscountValueUSD        float64 `json:"discountValueUSD"`
	DiscountValuePerPackage float64 `json:"discountValuePerPackage"`
	ExtraPercent            float64 `json:"extraPercent"`
	TotalPercent            float64 `json:"totalPercent"`
	TotalValueUSD           float64 `json:"totalValueUSD"`
	FinalPercent            float64 `json:"finalPercent"`
	FinalValueUSD           float64 `json:"finalValueUSD"`
}

// Derive computes one row per entry of amounts. Missing percent entries
// count as 0, and a cell whose value overflows float64 is 0.
//
// The discount of every tier is taken against the first tier's amount, not
// the tier's own amount.
func Derive(amounts, standardPercents, discountPercents []float64, p Params) []Row {
	if len(amounts) == 0 {
		return []Row{}
	}
	base := amounts[0]
	rows := make([]Row, len(amounts))
	for i, amountTBC := range amounts {
		pkg := i + 1
		valueUSD := finite(amountTBC * p.TokenPrice)

		standardPercent := at(standardPercents, i)
		standardAmountTBC := finite(Round(standardPercent / percentScale * amountTBC))
		standardValueUSD := finite(Round(standardPercent / percentScale * valueUSD))

		discountPercent := at(discountPercents, i)
		discountAmountTBC := finite(Round(discountPercent / percentScale * base))
		discountValueUSD := finite(discountAmountTBC * p.TokenPrice)
		discountValuePerPackage := discountValueUSD / float64(pkg)

		var extraPercent float64
		if amountTBC != 0 {
			extraPercent = finite(Round(discountAmountTBC / amountTBC * percentScale))
		}
		totalPercent := finite(standardPercent + extraPercent)
		totalValueUSD := finite(standardValueUSD + discountValueUSD)

		rows[i] = Row{
			Package:                 pkg,
			AmountTBC:               amountTBC,
			ValueUSD:                valueUSD,
			StandardPercent:         standardPercent,
			StandardAmountTBC:       standardAmountTBC,
			StandardValueUSD:        standardValueUSD,
			DiscountPercent:         discountPercent,
			DiscountAmountTBC:       discountAmountTBC,
			DiscountValueUSD:        discountValueUSD,
			DiscountValuePerPackage: discountValuePerPackage,
			ExtraPercent:            extraPercent,
			TotalPercent:            totalPercent,
			TotalValueUSD:           totalValueUSD,
			FinalPercent:            finite(totalPercent + p.BonusPercent),
			FinalValueUSD:           finite(totalValueUSD * (1 + p.BonusPercent/percentScale)),
		}
	}
	return rows
}

// Round rounds half up: 2.5 -> 3, -2.5 -> -2. Unlike floor(x+0.5) it
// keeps 0.49999999999999994 at 0.
func Round(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// finite maps NaN and the infinities to 0.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}
