// Package engine holds the shared protocol every strategy library is built
// on: metric normalization, column availability, the composite rank scorer
// and the high-risk filter. Everything here is a pure transform over
// caller-owned copies; the shared universe snapshot is never mutated.
package engine

import "math"

// Magnitude thresholds for the percentage/ratio heuristic. Upstream sources
// disagree on whether "6% yield" arrives as 6 or 0.06; the heuristic is
// applied per attribute and per strategy, never globally, so a bad source
// for one column cannot distort another.
const (
	// FractionThreshold suits attributes whose plausible fraction range is
	// below 1 (vacancy, dividend yield in some sources).
	FractionThreshold = 1.0
	// PercentThreshold suits attributes that may legitimately exceed 1 as a
	// fraction-like value (returns, volatility, payout).
	PercentThreshold = 5.0
)

// AsFraction coerces a value to the 0..1 fraction scale. Values whose
// magnitude exceeds the threshold are treated as whole-number percentages
// and divided by 100. Missing stays missing; zero passes through.
func AsFraction(v *float64, threshold float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	if math.Abs(out) > threshold {
		out = out / 100
	}
	return &out
}

// AsPercent coerces a value to the percentage scale for display and
// percentage-denominated formulas: fractions in (0, 1) are multiplied by
// 100, everything else passes through unchanged.
func AsPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	if out > 0 && out < 1 {
		out = out * 100
	}
	return &out
}
