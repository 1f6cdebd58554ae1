package fees

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/log"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/metrics"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/schedule"
)

var hundred = decimal.NewFromInt(100)

// ResolvedFVF is the outcome of final value fee resolution for one sale.
// Amount is the base fee before seller-standing adjustments, unrounded.
type ResolvedFVF struct {
	Amount decimal.Decimal
	// EffectiveRatePercent is Amount over the sale total, as a percentage;
	// zero when the sale total is zero. Display only.
	EffectiveRatePercent decimal.Decimal
	GroupLabel           string
	// VehicleFixed marks a fixed vehicle amount, which is exempt from
	// percentage semantics and from all discounts and surcharges.
	VehicleFixed bool
	// Warning carries the non-fatal unknown-category diagnostic, if any.
	Warning string
}

// ResolveFVF determines the base final value fee for a category and sale
// total: a fixed vehicle amount, a flat rate on the whole total, or a tiered
// schedule. Unknown categories fall back to the schedule's default group.
func ResolveFVF(ctx context.Context, categoryID int64, saleTotal decimal.Decimal, s *schedule.Schedule) ResolvedFVF {
	if key, v, ok := s.VehicleFor(categoryID); ok {
		return ResolvedFVF{
			Amount:       *v.FinalValueFee,
			GroupLabel:   "vehicles/" + key,
			VehicleFixed: true,
		}
	}

	group, fellBack := s.GroupFor(categoryID)
	var warning string
	if fellBack {
		warning = fmt.Sprintf("category %d not mapped, using default group %q", categoryID, group.Name)
		log.Warn(ctx, "Category not mapped to a fee group, using default",
			zap.Int64("category_id", categoryID),
			zap.String("default_group", group.Name))
		metrics.CalculationWarnings.WithLabelValues("unknown_category").Inc()
	}

	var amount decimal.Decimal
	if group.IsFlat() {
		amount = saleTotal.Mul(*group.VariableRate)
	} else {
		amount = tieredAmount(saleTotal, group.Bands())
	}

	return ResolvedFVF{
		Amount:               amount,
		EffectiveRatePercent: effectiveRatePercent(amount, saleTotal),
		GroupLabel:           group.Name,
		Warning:              warning,
	}
}

// tieredAmount walks the bands in ascending order and charges each band's
// rate on the portion of the sale total falling inside it. An amount exactly
// on a boundary belongs to the lower band; the final unbounded band consumes
// the remainder.
func tieredAmount(saleTotal decimal.Decimal, bands []schedule.Band) decimal.Decimal {
	amount := decimal.Zero
	for _, b := range bands {
		if saleTotal.LessThanOrEqual(b.Lower) {
			break
		}
		if b.Unbounded || saleTotal.LessThanOrEqual(b.Upper) {
			amount = amount.Add(saleTotal.Sub(b.Lower).Mul(b.Rate))
			break
		}
		amount = amount.Add(b.Upper.Sub(b.Lower).Mul(b.Rate))
	}
	return amount
}

func effectiveRatePercent(amount, saleTotal decimal.Decimal) decimal.Decimal {
	if saleTotal.IsZero() {
		return decimal.Zero
	}
	return amount.Div(saleTotal).Mul(hundred)
}

// adjustFVF applies the seller-standing discount and surcharges as
// percentages of the base fee, summed algebraically, and clamps the
// effective fee at zero. Fixed vehicle fees never reach this path.
func adjustFVF(in SaleInput, adj schedule.Adjustments, base decimal.Decimal) ([]Adjustment, decimal.Decimal) {
	var lines []Adjustment
	effective := base

	if in.SellerStanding == StandingTopRated {
		rate := adj.TopRatedDiscountRate.Abs()
		amount := base.Mul(rate).Neg()
		effective = effective.Add(amount)
		lines = append(lines, Adjustment{
			Name:             "top_rated_seller_discount",
			RateOnFVFPercent: rate.Mul(hundred).Neg(),
			Amount:           amount,
		})
	}

	if in.HighDisputeRate {
		rate := adj.HighDisputeSurchargeRate
		amount := base.Mul(rate)
		effective = effective.Add(amount)
		lines = append(lines, Adjustment{
			Name:             "high_dispute_rate_surcharge",
			RateOnFVFPercent: rate.Mul(hundred),
			Amount:           amount,
		})
	}

	if in.SellerStanding == StandingBelowStandard {
		rate := adj.BelowStandardSurchargeRate
		amount := base.Mul(rate)
		effective = effective.Add(amount)
		lines = append(lines, Adjustment{
			Name:             "below_standard_surcharge",
			RateOnFVFPercent: rate.Mul(hundred),
			Amount:           amount,
		})
	}

	return lines, clampNonNegative(effective)
}
