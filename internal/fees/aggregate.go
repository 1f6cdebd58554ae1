package fees

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/metrics"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/schedule"
)

// Aggregate composes the final value fee with every other fee component
// into a pre-tax Breakdown. Tax treatment and profit are filled in by
// Calculate.
func Aggregate(ctx context.Context, in SaleInput, s *schedule.Schedule) Breakdown {
	saleTotal := in.SaleTotal()
	b := Breakdown{
		SaleTotal: round2(saleTotal),
	}

	resolved := ResolveFVF(ctx, in.CategoryID, saleTotal, s)
	if resolved.Warning != "" {
		b.Warnings = append(b.Warnings, resolved.Warning)
	}
	b.FVFGroup = resolved.GroupLabel
	b.VehicleFixedFVF = resolved.VehicleFixed
	b.FVFBase = round2(resolved.Amount)

	if resolved.VehicleFixed {
		b.FinalValueFee = b.FVFBase
		b.EffectiveFVFRatePercent = decimal.Zero
	} else {
		lines, effective := adjustFVF(in, s.Adjustments, b.FVFBase)
		for i := range lines {
			lines[i].Amount = round2(lines[i].Amount)
		}
		b.FVFAdjustments = lines
		b.FinalValueFee = round2(effective)
		b.EffectiveFVFRatePercent = effectiveRatePercent(effective, saleTotal)
	}

	b.RegulatoryFee = round2(saleTotal.Mul(s.Constants.RegulatoryFeeRate))

	zone, rate := s.InternationalRate(in.DestinationZone)
	b.InternationalFee = round2(saleTotal.Mul(rate))
	b.InternationalFeeDetail = fmt.Sprintf("zone %s at %s%%", zone, rate.Mul(hundred))

	b.FixedOrderFee = round2(s.Constants.FixedOrderFee)

	b.InsertionFee, b.InsertionFeeDetail = insertionFee(&b, in, s)

	if in.CurrencyConversion {
		b.CurrencyConversionFee = round2(saleTotal.Mul(s.Constants.CurrencyConversionFeeRate))
	} else {
		b.CurrencyConversionFee = decimal.Zero
	}

	b.UpgradeFees, b.UpgradeTotal = upgradeFees(in, s)

	total := b.FinalValueFee.
		Add(b.RegulatoryFee).
		Add(b.InternationalFee).
		Add(b.FixedOrderFee).
		Add(b.InsertionFee).
		Add(b.CurrencyConversionFee).
		Add(b.UpgradeTotal)
	b.TotalFeesPreTax = round2(clampNonNegative(total))

	return b
}

// insertionFee computes the listing insertion fee: a fixed amount for
// vehicle categories, otherwise zero inside the seller's free allotment for
// the listing format and store tier, otherwise the non-store or
// extra-listing fee.
func insertionFee(b *Breakdown, in SaleInput, s *schedule.Schedule) (decimal.Decimal, string) {
	if key, v, ok := s.VehicleFor(in.CategoryID); ok {
		return round2(*v.InsertionFee), fmt.Sprintf("fixed vehicle fee (%s)", key)
	}

	if in.StoreTier == "" {
		return round2(nonStoreFee(in.ListingFormat, s)), fmt.Sprintf("%s listing, no store", in.ListingFormat)
	}

	tier, ok := s.InsertionFees.StoreTiers[in.StoreTier]
	if !ok {
		warning := fmt.Sprintf("store tier %q not in schedule, charging non-store fee", in.StoreTier)
		b.Warnings = append(b.Warnings, warning)
		metrics.CalculationWarnings.WithLabelValues("unknown_store_tier").Inc()
		return round2(nonStoreFee(in.ListingFormat, s)), fmt.Sprintf("%s listing, unknown store tier", in.ListingFormat)
	}

	var allowance schedule.Allowance
	var extra decimal.Decimal
	if in.ListingFormat == FormatAuction {
		allowance = tier.FreeAuctionListings
		extra = tier.ExtraAuctionFee
	} else {
		allowance = tier.FreeFixedPriceListings
		extra = tier.ExtraFixedPriceFee
	}

	if allowance.Covers(in.ListingsThisPeriod) {
		if allowance.Unlimited {
			return decimal.Zero, fmt.Sprintf("unlimited %s listings (%s)", in.ListingFormat, in.StoreTier)
		}
		return decimal.Zero, fmt.Sprintf("within free allotment of %d (%s)", allowance.Count, in.StoreTier)
	}
	return round2(extra), fmt.Sprintf("beyond free allotment of %d (%s)", allowance.Count, in.StoreTier)
}

func nonStoreFee(format ListingFormat, s *schedule.Schedule) decimal.Decimal {
	if format == FormatAuction {
		return s.InsertionFees.NonStore.Auction
	}
	return s.InsertionFees.NonStore.FixedPrice
}

// upgradeFees computes optional listing upgrade charges: the subtitle flat
// fee and the reserve price fee. The reserve fee only applies to auctions
// and uses the fixed vehicle override for vehicle categories.
func upgradeFees(in SaleInput, s *schedule.Schedule) ([]UpgradeFee, decimal.Decimal) {
	var upgrades []UpgradeFee
	total := decimal.Zero

	if in.Subtitle {
		fee := round2(s.ListingUpgrades.Subtitle)
		upgrades = append(upgrades, UpgradeFee{Name: "subtitle", Amount: fee})
		total = total.Add(fee)
	}

	if in.UseReservePrice && in.ReservePrice.IsPositive() && in.ListingFormat == FormatAuction {
		var fee decimal.Decimal
		name := "reserve_price"
		if _, _, ok := s.VehicleFor(in.CategoryID); ok && s.Vehicles.ReservePriceFee.IsPositive() {
			fee = round2(s.Vehicles.ReservePriceFee)
			name = "reserve_price_vehicle"
		} else {
			rp := s.ListingUpgrades.ReservePrice
			fee = round2(clamp(in.ReservePrice.Mul(rp.PercentageRate), rp.MinFee, rp.MaxFee))
		}
		upgrades = append(upgrades, UpgradeFee{Name: name, Amount: fee})
		total = total.Add(fee)
	}

	return upgrades, round2(total)
}
