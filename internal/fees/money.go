package fees

import (
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// round2 applies the output rounding policy: two decimal places, half away
// from zero. Applied to each public currency result, never to intermediate
// sums, so repeated computation of the same input is bit-for-bit
// reproducible.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// clampNonNegative floors a fee component at zero. A negative effective fee
// is a defect, not a valid outcome.
func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// clamp bounds v to [min, max].
func clamp(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}
