package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Growth picks the value of a field for a newly appended tier.
type Growth interface {
	// Next returns the value for the tier appended after col.
	Next(col []float64) float64
}

// GrowthFunc adapts a function to Growth.
type GrowthFunc func(col []float64) float64

// Next calls f(col).
func (f GrowthFunc) Next(col []float64) float64 { return f(col) }

// Fixed appends the same value every time.
func Fixed(v float64) Growth {
	return GrowthFunc(func([]float64) float64 { return v })
}

// Step appends the last value plus delta. An empty column starts at delta.
func Step(delta float64) Growth {
	return GrowthFunc(func(col []float64) float64 {
		return last(col) + delta
	})
}

// Scale appends the last value times factor. An empty column yields 0.
func Scale(factor float64) Growth {
	return GrowthFunc(func(col []float64) float64 {
		return last(col) * factor
	})
}

// Series appends base*factor^i where i is the new tier's 0-based index,
// regardless of edits made to earlier tiers.
func Series(base, factor float64) Growth {
	return GrowthFunc(func(col []float64) float64 {
		return base * math.Pow(factor, float64(len(col)))
	})
}

// Square appends the square of the new tier count.
func Square() Growth {
	return GrowthFunc(func(col []float64) float64 {
		n := float64(len(col) + 1)
		return n * n
	})
}

// ErrUnknownGrowth reports a growth name outside the known set.
var ErrUnknownGrowth = errors.New("unknown growth policy")

// ParseGrowth maps a configuration value to a Growth. "step", "scale" and
// "fixed" use arg as their delta, factor or value. Empty selects Square.
func ParseGrowth(name string, arg float64) (Growth, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "square":
		return Square(), nil
	case "step":
		return Step(arg), nil
	case "scale":
		return Scale(arg), nil
	case "fixed":
		return Fixed(arg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGrowth, name)
}

func last(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	return col[len(col)-1]
}
