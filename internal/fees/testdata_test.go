package fees

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/schedule"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// testSchedule builds the schedule used across the engine tests: one flat
// group, two tiered groups, a vehicle type, a store tier with finite
// allowances and one with unlimited.
func testSchedule(t *testing.T) *schedule.Schedule {
	t.Helper()

	s := &schedule.Schedule{
		GeneratedOn:  "2025-06-01",
		Currency:     "EUR",
		DefaultGroup: "general",
		FinalValueFees: []*schedule.FeeGroup{
			{
				Name:         "general",
				CategoryIDs:  []int64{100},
				VariableRate: decp("0.10"),
			},
			{
				Name:        "two_tier",
				CategoryIDs: []int64{200},
				Tiers: []schedule.Tier{
					{UpTo: decp("100"), Rate: dec("0.10")},
					{Above: decp("100"), Rate: dec("0.05")},
				},
			},
			{
				Name:        "three_tier",
				CategoryIDs: []int64{300},
				Tiers: []schedule.Tier{
					{UpTo: decp("100"), Rate: dec("0.10")},
					{From: decp("100"), To: decp("500"), Rate: dec("0.07")},
					{Above: decp("500"), Rate: dec("0.03")},
				},
			},
		},
		Vehicles: schedule.Vehicles{
			Types: map[string]*schedule.Vehicle{
				"high_value_vehicles": {
					CategoryIDs:   []int64{900},
					InsertionFee:  decp("40.00"),
					FinalValueFee: decp("9.99"),
				},
			},
			ReservePriceFee: dec("19.00"),
		},
		Constants: schedule.Constants{
			FixedOrderFee:             dec("0.40"),
			RegulatoryFeeRate:         dec("0.02"),
			CurrencyConversionFeeRate: dec("0.03"),
		},
		InternationalFeeRates: map[string]decimal.Decimal{
			"domestic_eurozone":    dec("0"),
			"united_states_canada": dec("0.024"),
			"rest_of_world":        dec("0.033"),
		},
		InsertionFees: schedule.InsertionFees{
			NonStore: schedule.FormatFees{
				Auction:    dec("0.35"),
				FixedPrice: dec("0.35"),
			},
			StoreTiers: map[string]schedule.StoreTier{
				"basic": {
					MonthlyCost:            dec("19.50"),
					FreeAuctionListings:    schedule.Allowance{Count: 20},
					FreeFixedPriceListings: schedule.Allowance{Count: 50},
					ExtraAuctionFee:        dec("0.35"),
					ExtraFixedPriceFee:     dec("0.10"),
				},
				"premium_plus": {
					MonthlyCost:            dec("179.50"),
					FreeAuctionListings:    schedule.Allowance{Unlimited: true},
					FreeFixedPriceListings: schedule.Allowance{Unlimited: true},
				},
			},
		},
		Adjustments: schedule.Adjustments{
			TopRatedDiscountRate:       dec("-0.10"),
			HighDisputeSurchargeRate:   dec("0.05"),
			BelowStandardSurchargeRate: dec("0.06"),
		},
		ListingUpgrades: schedule.ListingUpgrades{
			Subtitle: dec("1.10"),
			ReservePrice: schedule.ReservePriceFee{
				PercentageRate: dec("0.075"),
				MinFee:         dec("3.00"),
				MaxFee:         dec("100.00"),
			},
		},
	}

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("test schedule failed to init: %v", err)
	}
	return s
}

// baseInput returns a plain fixed-price domestic sale in the flat-rate
// group.
func baseInput() SaleInput {
	return SaleInput{
		ItemPrice:          dec("100.00"),
		ShippingCharged:    dec("0.00"),
		ItemCost:           dec("50.00"),
		ShippingCost:       dec("5.00"),
		OtherCosts:         dec("0.00"),
		CategoryID:         100,
		DestinationZone:    "domestic_eurozone",
		SellerStanding:     StandingStandard,
		ListingFormat:      FormatFixedPrice,
		ListingsThisPeriod: 1,
		TaxRate:            dec("0.22"),
	}
}
