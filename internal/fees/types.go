package fees

import (
	"github.com/shopspring/decimal"
)

// SellerStanding is the seller's performance level on the marketplace.
type SellerStanding string

const (
	StandingTopRated      SellerStanding = "top_rated"
	StandingStandard      SellerStanding = "standard"
	StandingBelowStandard SellerStanding = "below_standard"
)

// Valid reports whether the standing is one of the known values.
func (s SellerStanding) Valid() bool {
	switch s {
	case StandingTopRated, StandingStandard, StandingBelowStandard:
		return true
	}
	return false
}

// ListingFormat is the listing sale format.
type ListingFormat string

const (
	FormatAuction    ListingFormat = "auction"
	FormatFixedPrice ListingFormat = "fixed_price"
)

// Valid reports whether the format is one of the known values.
func (f ListingFormat) Valid() bool {
	return f == FormatAuction || f == FormatFixedPrice
}

// SaleInput holds the user-supplied parameters for one listing. It is
// constructed fresh per calculation; the engine assumes amounts are already
// validated non-negative at the input boundary.
type SaleInput struct {
	ItemPrice       decimal.Decimal `json:"item_price"`
	ShippingCharged decimal.Decimal `json:"shipping_charged"`
	ItemCost        decimal.Decimal `json:"item_cost"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	OtherCosts      decimal.Decimal `json:"other_costs"`

	CategoryID      int64          `json:"category_id"`
	DestinationZone string         `json:"destination_zone"`
	SellerStanding  SellerStanding `json:"seller_standing"`
	HighDisputeRate bool           `json:"high_dispute_rate"`

	// StoreTier is the store subscription tier name; empty means no store.
	StoreTier          string        `json:"store_tier,omitempty"`
	ListingFormat      ListingFormat `json:"listing_format"`
	ListingsThisPeriod int           `json:"listings_this_period"`

	Subtitle        bool            `json:"subtitle"`
	UseReservePrice bool            `json:"use_reserve_price"`
	ReservePrice    decimal.Decimal `json:"reserve_price"`

	CurrencyConversion bool `json:"currency_conversion"`

	// TaxRate is a fraction, e.g. 0.22 for 22% VAT.
	TaxRate          decimal.Decimal `json:"tax_rate"`
	ApplyTaxOnFees   bool            `json:"apply_tax_on_fees"`
	PricesIncludeTax bool            `json:"prices_include_tax"`
}

// SaleTotal is the amount marketplace fees are based on: item price plus
// shipping charged to the buyer.
func (in SaleInput) SaleTotal() decimal.Decimal {
	return in.ItemPrice.Add(in.ShippingCharged)
}

// Adjustment is one discount or surcharge line applied to the base final
// value fee. Amount is negative for discounts.
type Adjustment struct {
	Name string `json:"name"`
	// RateOnFVFPercent is the adjustment rate as a percentage of the base
	// final value fee, for display.
	RateOnFVFPercent decimal.Decimal `json:"rate_on_fvf_percent"`
	Amount           decimal.Decimal `json:"amount"`
}

// UpgradeFee is one optional listing upgrade charge.
type UpgradeFee struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the output of one calculation: every fee component, the tax
// treatment of the fee total and the resulting net profit figures. Produced
// fresh per calculation, never mutated after construction.
type Breakdown struct {
	SaleTotal          decimal.Decimal `json:"sale_total"`
	SaleTotalExclusive decimal.Decimal `json:"sale_total_exclusive"`

	FVFGroup       string          `json:"fvf_group"`
	FVFBase        decimal.Decimal `json:"fvf_base"`
	FVFAdjustments []Adjustment    `json:"fvf_adjustments,omitempty"`
	FinalValueFee  decimal.Decimal `json:"final_value_fee"`
	// EffectiveFVFRatePercent is the blended percentage (fee over sale
	// total) after tiering and adjustments; display only, kept at full
	// precision.
	EffectiveFVFRatePercent decimal.Decimal `json:"effective_fvf_rate_percent"`
	VehicleFixedFVF         bool            `json:"vehicle_fixed_fvf"`

	RegulatoryFee          decimal.Decimal `json:"regulatory_fee"`
	InternationalFee       decimal.Decimal `json:"international_fee"`
	InternationalFeeDetail string          `json:"international_fee_detail"`
	FixedOrderFee          decimal.Decimal `json:"fixed_order_fee"`
	InsertionFee           decimal.Decimal `json:"insertion_fee"`
	InsertionFeeDetail     string          `json:"insertion_fee_detail"`
	CurrencyConversionFee  decimal.Decimal `json:"currency_conversion_fee"`
	UpgradeFees            []UpgradeFee    `json:"upgrade_fees,omitempty"`
	UpgradeTotal           decimal.Decimal `json:"upgrade_total"`

	TotalFeesPreTax  decimal.Decimal `json:"total_fees_pre_tax"`
	TaxOnFees        decimal.Decimal `json:"tax_on_fees"`
	TotalFeesWithTax decimal.Decimal `json:"total_fees_with_tax"`

	// NetProfit treats tax on fees as a cost; NetProfitTaxReclaimed assumes
	// it is recoverable as input tax credit. Which applies depends on the
	// seller's tax regime.
	NetProfit             decimal.Decimal `json:"net_profit"`
	NetProfitTaxReclaimed decimal.Decimal `json:"net_profit_tax_reclaimed"`

	Warnings []string `json:"warnings,omitempty"`
}
