// Package voucher derives buyer and agency voucher tables.
package voucher

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const percentScale = 100

// Strategy selects how voucher tiers are generated.
type Strategy string

const (
	// StrategyExplicit takes an explicit amount per tier; new tiers add a fixed step.
	StrategyExplicit Strategy = "explicit"
	// StrategyDoubling takes an explicit list; new tiers multiply the last amount.
	StrategyDoubling Strategy = "doubling"
	// StrategySeries generates base*factor^i for a configurable tier count.
	StrategySeries Strategy = "series"
)

// ErrUnknownStrategy reports a strategy name outside the known set.
var ErrUnknownStrategy = errors.New("unknown voucher strategy")

// ParseStrategy maps a configuration value to a Strategy. Empty selects
// StrategyDoubling.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyDoubling:
		return StrategyDoubling, nil
	case StrategyExplicit:
		return StrategyExplicit, nil
	case StrategySeries:
		return StrategySeries, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Params carries the token price and the category's event bonus.
type Params struct {
	TokenPrice   float64
	BonusPercent float64
}

// Row is one derived voucher tier.
type Row struct {
	Package       int     `json:"package"`
	AmountTBC     float64 `json:"amountTBC"`
	ValueUSD      float64 `json:"valueUSD"`
	Percent       float64 `json:"percent"`
	FinalPercent  float64 `json:"finalPercent"`
	FinalValueUSD float64 `json:"finalValueUSD"`
}

// Derive computes one row per amount. Missing percents count as 0, and a
// cell whose value overflows float64 is 0.
func Derive(amounts, percents []float64, p Params) []Row {
	rows := make([]Row, len(amounts))
	for i, amountTBC := range amounts {
		valueUSD := finite(amountTBC * p.TokenPrice)
		var percent float64
		if i < len(percents) {
			percent = percents[i]
		}
		rows[i] = Row{
			Package:       i + 1,
			AmountTBC:     amountTBC,
			ValueUSD:      valueUSD,
			Percent:       percent,
			FinalPercent:  finite(percent + p.BonusPercent),
			FinalValueUSD: finite(valueUSD * (1 + p.BonusPercent/percentScale)),
		}
	}
	return rows
}

// Series returns count amounts base*factor^i. A non-positive count yields
// an empty series.
func Series(base, factor float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = finite(base * math.Pow(factor, float64(i)))
	}
	return out
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
