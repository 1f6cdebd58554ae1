package schedule

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/log"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/metrics"
)

// Schedule is an immutable snapshot of all marketplace rates and thresholds
// for one jurisdiction and date. It is loaded once at process start and must
// never be mutated afterwards; all lookups are read-only and safe for
// concurrent use.
type Schedule struct {
	GeneratedOn string `json:"generated_on"`
	Currency    string `json:"currency"`

	// DefaultGroup names the fee group used for category identifiers with
	// no explicit mapping.
	DefaultGroup string `json:"default_group"`

	FinalValueFees        []*FeeGroup                `json:"final_value_fees"`
	Vehicles              Vehicles                   `json:"vehicles"`
	Constants             Constants                  `json:"constants"`
	InternationalFeeRates map[string]decimal.Decimal `json:"international_fee_rates"`
	InsertionFees         InsertionFees              `json:"insertion_fees"`
	Adjustments           Adjustments                `json:"discounts_surcharges"`
	ListingUpgrades       ListingUpgrades            `json:"listing_upgrades"`

	categoryGroup   map[int64]*FeeGroup
	categoryVehicle map[int64]vehicleRef
	defaultGroup    *FeeGroup
}

type vehicleRef struct {
	key     string
	vehicle *Vehicle
}

// FeeGroup describes how the final value fee is computed for the categories
// it covers: either a single flat rate or an ordered tier schedule.
type FeeGroup struct {
	Name         string           `json:"group"`
	CategoryIDs  []int64          `json:"category_ids"`
	VariableRate *decimal.Decimal `json:"variable_rate,omitempty"`
	Tiers        []Tier           `json:"tiers,omitempty"`

	bands []Band
}

// Tier is one entry of a tiered schedule as it appears in the fee schedule
// file. Exactly one of the three shapes must be present: "up to X",
// "from A to B", or "above X".
type Tier struct {
	UpTo  *decimal.Decimal `json:"up_to,omitempty"`
	From  *decimal.Decimal `json:"from,omitempty"`
	To    *decimal.Decimal `json:"to,omitempty"`
	Above *decimal.Decimal `json:"above,omitempty"`
	Rate  decimal.Decimal  `json:"rate"`
}

// Band is a normalized tier: a contiguous half-open amount range with a
// single rate. Bands partition [0, inf) once a group validates. The upper
// bound is inclusive: an amount exactly on a boundary belongs to the lower
// band.
type Band struct {
	Lower     decimal.Decimal
	Upper     decimal.Decimal
	Unbounded bool
	Rate      decimal.Decimal
}

// Vehicles holds the per-vehicle-type fixed fee schedule.
type Vehicles struct {
	Types           map[string]*Vehicle `json:"types"`
	ReservePriceFee decimal.Decimal     `json:"reserve_price_fee"`
}

// Vehicle carries the fixed insertion and final value fees for one vehicle
// type. Both fee fields are required; entries missing either are skipped at
// load time.
type Vehicle struct {
	CategoryIDs   []int64          `json:"category_ids"`
	InsertionFee  *decimal.Decimal `json:"insertion_fee"`
	FinalValueFee *decimal.Decimal `json:"final_value_fee"`
}

// Constants holds global flat fees and rates.
type Constants struct {
	FixedOrderFee             decimal.Decimal `json:"fixed_order_fee"`
	RegulatoryFeeRate         decimal.Decimal `json:"regulatory_compliance_fee_rate"`
	CurrencyConversionFeeRate decimal.Decimal `json:"currency_conversion_fee_rate"`
}

// InsertionFees holds listing fees for sellers without a store and the
// per-store-tier schedules.
type InsertionFees struct {
	NonStore   FormatFees           `json:"non_store"`
	StoreTiers map[string]StoreTier `json:"store_subscriptions"`
}

// FormatFees holds a fee per listing format.
type FormatFees struct {
	Auction    decimal.Decimal `json:"auction"`
	FixedPrice decimal.Decimal `json:"fixed_price"`
}

// StoreTier describes one store subscription: monthly cost, free listing
// allowances per format and the fee for listings beyond the allowance.
type StoreTier struct {
	MonthlyCost            decimal.Decimal `json:"monthly_cost"`
	FreeAuctionListings    Allowance       `json:"free_auction_listings"`
	FreeFixedPriceListings Allowance       `json:"free_fixed_price_listings"`
	ExtraAuctionFee        decimal.Decimal `json:"extra_listing_fee_auction"`
	ExtraFixedPriceFee     decimal.Decimal `json:"extra_listing_fee_fixed_price"`
}

// Allowance is a free-listing allotment: either a fixed count or unlimited.
// In the schedule file it is encoded as an integer or the string
// "unlimited".
type Allowance struct {
	Unlimited bool
	Count     int
}

// UnmarshalJSON decodes an allowance from either form.
func (a *Allowance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unlimited" {
			return fmt.Errorf("invalid allowance %q", s)
		}
		a.Unlimited = true
		a.Count = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid allowance: %s", data)
	}
	if n < 0 {
		return fmt.Errorf("allowance must be non-negative, got %d", n)
	}
	a.Unlimited = false
	a.Count = n
	return nil
}

// MarshalJSON encodes an allowance back to its file form.
func (a Allowance) MarshalJSON() ([]byte, error) {
	if a.Unlimited {
		return json.Marshal("unlimited")
	}
	return json.Marshal(a.Count)
}

// Covers reports whether listing number n (1-based within the billing
// period) falls inside the free allotment.
func (a Allowance) Covers(n int) bool {
	return a.Unlimited || n <= a.Count
}

// Adjustments holds the seller-standing discount and surcharge rates,
// expressed as fractions of the base final value fee.
type Adjustments struct {
	TopRatedDiscountRate       decimal.Decimal `json:"top_rated_seller_discount_rate"`
	HighDisputeSurchargeRate   decimal.Decimal `json:"high_dispute_surcharge_rate"`
	BelowStandardSurchargeRate decimal.Decimal `json:"below_standard_surcharge_rate"`
}

// ListingUpgrades holds optional listing upgrade pricing.
type ListingUpgrades struct {
	Subtitle     decimal.Decimal `json:"subtitle"`
	ReservePrice ReservePriceFee `json:"reserve_price"`
}

// ReservePriceFee is a percentage of the reserve price clamped to a
// min/max band.
type ReservePriceFee struct {
	PercentageRate decimal.Decimal `json:"percentage_rate"`
	MinFee         decimal.Decimal `json:"min_fee"`
	MaxFee         decimal.Decimal `json:"max_fee"`
}

// Init validates the schedule and builds the derived lookup maps. It must
// be called exactly once, before the schedule is shared; Load does this for
// schedules read from disk. Vehicle entries missing required fee fields are
// skipped with a warning rather than failing the load.
func (s *Schedule) Init(ctx context.Context) error {
	if len(s.FinalValueFees) == 0 {
		return NewInvalidScheduleError("no final value fee groups defined", "")
	}

	s.categoryGroup = make(map[int64]*FeeGroup)
	for _, g := range s.FinalValueFees {
		if err := g.normalize(); err != nil {
			return err
		}
		for _, id := range g.CategoryIDs {
			if prev, ok := s.categoryGroup[id]; ok && prev != g {
				return NewInvalidScheduleError(
					fmt.Sprintf("category %d mapped to both %q and %q", id, prev.Name, g.Name), "")
			}
			s.categoryGroup[id] = g
		}
		if g.Name == s.DefaultGroup {
			s.defaultGroup = g
		}
	}

	if s.defaultGroup == nil {
		return NewInvalidScheduleError(
			fmt.Sprintf("default group %q not found", s.DefaultGroup), "")
	}

	s.categoryVehicle = make(map[int64]vehicleRef)
	for key, v := range s.Vehicles.Types {
		if v == nil || v.InsertionFee == nil || v.FinalValueFee == nil {
			log.Warn(ctx, "Skipping vehicle type with missing fee fields",
				zap.String("vehicle_type", key))
			metrics.ScheduleVehicleEntriesSkipped.Inc()
			continue
		}
		for _, id := range v.CategoryIDs {
			s.categoryVehicle[id] = vehicleRef{key: key, vehicle: v}
		}
	}

	if s.Constants.RegulatoryFeeRate.IsNegative() ||
		s.Constants.CurrencyConversionFeeRate.IsNegative() ||
		s.Constants.FixedOrderFee.IsNegative() {
		return NewInvalidScheduleError("constants must be non-negative", "")
	}
	for zone, rate := range s.InternationalFeeRates {
		if rate.IsNegative() {
			return NewInvalidScheduleError("international fee rate must be non-negative", zone)
		}
	}

	return nil
}

// GroupFor resolves the fee group for a category identifier. The second
// return value reports that the category was unmapped and the default group
// was used instead.
func (s *Schedule) GroupFor(categoryID int64) (*FeeGroup, bool) {
	if g, ok := s.categoryGroup[categoryID]; ok {
		return g, false
	}
	return s.defaultGroup, true
}

// VehicleFor resolves the vehicle type for a category identifier, if any.
func (s *Schedule) VehicleFor(categoryID int64) (string, *Vehicle, bool) {
	ref, ok := s.categoryVehicle[categoryID]
	if !ok {
		return "", nil, false
	}
	return ref.key, ref.vehicle, true
}

// InternationalRate returns the fee rate for a destination zone. Unknown
// zones fall back to the rest-of-world rate; zones without a surcharge carry
// an explicit zero in the schedule.
func (s *Schedule) InternationalRate(zone string) (string, decimal.Decimal) {
	if rate, ok := s.InternationalFeeRates[zone]; ok {
		return zone, rate
	}
	return ZoneRestOfWorld, s.InternationalFeeRates[ZoneRestOfWorld]
}

// ZoneRestOfWorld is the catch-all destination zone every schedule must
// define.
const ZoneRestOfWorld = "rest_of_world"

// IsFlat reports whether the group applies a single rate to the whole sale
// total.
func (g *FeeGroup) IsFlat() bool {
	return g.VariableRate != nil
}

// Bands returns the normalized tier bands. Only valid after Init.
func (g *FeeGroup) Bands() []Band {
	return g.bands
}

// normalize converts the file-form tiers into contiguous bands and checks
// the partition invariant: no gaps, no overlaps, last band unbounded.
func (g *FeeGroup) normalize() error {
	if g.VariableRate != nil {
		if len(g.Tiers) > 0 {
			return NewInvalidScheduleError("group has both variable_rate and tiers", g.Name)
		}
		if g.VariableRate.IsNegative() {
			return NewInvalidScheduleError("variable_rate must be non-negative", g.Name)
		}
		return nil
	}
	if len(g.Tiers) == 0 {
		return NewInvalidScheduleError("group has neither variable_rate nor tiers", g.Name)
	}

	bands := make([]Band, 0, len(g.Tiers))
	cursor := decimal.Zero
	closed := false
	for i, t := range g.Tiers {
		if closed {
			return NewInvalidScheduleError("tier after unbounded tier", g.Name)
		}
		if t.Rate.IsNegative() {
			return NewInvalidScheduleError("tier rate must be non-negative", g.Name)
		}
		switch {
		case t.UpTo != nil:
			if t.From != nil || t.To != nil || t.Above != nil {
				return NewInvalidScheduleError("tier mixes bound kinds", g.Name)
			}
			if t.UpTo.LessThanOrEqual(cursor) {
				return NewInvalidScheduleError(
					fmt.Sprintf("tier %d bound %s does not extend past %s", i, t.UpTo, cursor), g.Name)
			}
			bands = append(bands, Band{Lower: cursor, Upper: *t.UpTo, Rate: t.Rate})
			cursor = *t.UpTo
		case t.From != nil && t.To != nil:
			if t.Above != nil {
				return NewInvalidScheduleError("tier mixes bound kinds", g.Name)
			}
			if !t.From.Equal(cursor) {
				return NewInvalidScheduleError(
					fmt.Sprintf("tier %d starts at %s, expected %s", i, t.From, cursor), g.Name)
			}
			if t.To.LessThanOrEqual(*t.From) {
				return NewInvalidScheduleError(fmt.Sprintf("tier %d has empty range", i), g.Name)
			}
			bands = append(bands, Band{Lower: *t.From, Upper: *t.To, Rate: t.Rate})
			cursor = *t.To
		case t.Above != nil:
			if !t.Above.Equal(cursor) {
				return NewInvalidScheduleError(
					fmt.Sprintf("tier %d starts above %s, expected %s", i, t.Above, cursor), g.Name)
			}
			bands = append(bands, Band{Lower: *t.Above, Unbounded: true, Rate: t.Rate})
			closed = true
		default:
			return NewInvalidScheduleError(fmt.Sprintf("tier %d has no bounds", i), g.Name)
		}
	}
	if !closed {
		return NewInvalidScheduleError("last tier must be unbounded", g.Name)
	}

	g.bands = bands
	return nil
}
