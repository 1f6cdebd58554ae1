package fees

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolveFVF_FlatRate(t *testing.T) {
	s := testSchedule(t)
	ctx := context.Background()

	got := ResolveFVF(ctx, 100, dec("100.00"), s)
	if !got.Amount.Equal(dec("10.00")) {
		t.Fatalf("expected 10.00, got %s", got.Amount)
	}
	if got.GroupLabel != "general" {
		t.Fatalf("expected group general, got %s", got.GroupLabel)
	}
	if got.Warning != "" {
		t.Fatalf("unexpected warning: %s", got.Warning)
	}
	if !got.EffectiveRatePercent.Equal(dec("10")) {
		t.Fatalf("expected effective rate 10%%, got %s", got.EffectiveRatePercent)
	}
}

func TestResolveFVF_TieredSpanningBoundary(t *testing.T) {
	s := testSchedule(t)

	// 100 * 0.10 + 50 * 0.05 = 12.50
	got := ResolveFVF(context.Background(), 200, dec("150.00"), s)
	if !got.Amount.Equal(dec("12.50")) {
		t.Fatalf("expected 12.50, got %s", got.Amount)
	}
}

func TestResolveFVF_BoundaryBelongsToLowerTier(t *testing.T) {
	s := testSchedule(t)

	// Exactly 100 is charged entirely at the first tier's rate.
	got := ResolveFVF(context.Background(), 200, dec("100.00"), s)
	if !got.Amount.Equal(dec("10.00")) {
		t.Fatalf("expected 10.00, got %s", got.Amount)
	}
}

func TestResolveFVF_ThreeTiers(t *testing.T) {
	s := testSchedule(t)

	// 100*0.10 + 400*0.07 + 500*0.03 = 10 + 28 + 15 = 53
	got := ResolveFVF(context.Background(), 300, dec("1000.00"), s)
	if !got.Amount.Equal(dec("53.00")) {
		t.Fatalf("expected 53.00, got %s", got.Amount)
	}
}

func TestResolveFVF_VehicleFixed(t *testing.T) {
	s := testSchedule(t)

	for _, total := range []string{"10.00", "5000.00", "0"} {
		got := ResolveFVF(context.Background(), 900, dec(total), s)
		if !got.Amount.Equal(dec("9.99")) {
			t.Fatalf("sale total %s: expected 9.99, got %s", total, got.Amount)
		}
		if !got.VehicleFixed {
			t.Fatal("expected vehicle fixed resolution")
		}
		if !got.EffectiveRatePercent.IsZero() {
			t.Fatalf("expected zero effective rate, got %s", got.EffectiveRatePercent)
		}
	}
}

func TestResolveFVF_UnknownCategoryFallsBack(t *testing.T) {
	s := testSchedule(t)

	got := ResolveFVF(context.Background(), 999999, dec("100.00"), s)
	if got.GroupLabel != "general" {
		t.Fatalf("expected default group, got %s", got.GroupLabel)
	}
	if got.Warning == "" {
		t.Fatal("expected a warning for unmapped category")
	}
	if !got.Amount.Equal(dec("10.00")) {
		t.Fatalf("expected 10.00 via default group, got %s", got.Amount)
	}
}

func TestResolveFVF_ZeroSaleTotal(t *testing.T) {
	s := testSchedule(t)

	got := ResolveFVF(context.Background(), 200, decimal.Zero, s)
	if !got.Amount.IsZero() {
		t.Fatalf("expected zero fee, got %s", got.Amount)
	}
	if !got.EffectiveRatePercent.IsZero() {
		t.Fatalf("expected zero effective rate, got %s", got.EffectiveRatePercent)
	}
}

func TestResolveFVF_Monotonic(t *testing.T) {
	s := testSchedule(t)
	ctx := context.Background()

	for _, cat := range []int64{100, 200, 300} {
		prev := decimal.Zero
		for _, total := range []string{"0", "50", "99.99", "100", "100.01", "250", "500", "501", "5000"} {
			got := ResolveFVF(ctx, cat, dec(total), s)
			if got.Amount.LessThan(prev) {
				t.Fatalf("category %d: fee decreased to %s at sale total %s", cat, got.Amount, total)
			}
			prev = got.Amount
		}
	}
}

// The per-tier portions of any sale total must reconstruct the total
// exactly: no gap, no double count.
func TestTierPortionsPartitionSaleTotal(t *testing.T) {
	s := testSchedule(t)
	group, _ := s.GroupFor(300)

	for _, totalStr := range []string{"0.01", "99.99", "100", "100.01", "499.99", "500", "777.77", "123456.78"} {
		total := dec(totalStr)
		sum := decimal.Zero
		for _, b := range group.Bands() {
			if total.LessThanOrEqual(b.Lower) {
				break
			}
			portion := total.Sub(b.Lower)
			if !b.Unbounded && total.GreaterThan(b.Upper) {
				portion = b.Upper.Sub(b.Lower)
			}
			sum = sum.Add(portion)
		}
		if !sum.Equal(total) {
			t.Fatalf("portions of %s sum to %s", total, sum)
		}
	}
}

func TestAdjustFVF_TopRatedDiscount(t *testing.T) {
	s := testSchedule(t)
	in := baseInput()
	in.SellerStanding = StandingTopRated

	lines, effective := adjustFVF(in, s.Adjustments, dec("10.00"))
	if !effective.Equal(dec("9.00")) {
		t.Fatalf("expected 9.00, got %s", effective)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 adjustment line, got %d", len(lines))
	}
	if !lines[0].Amount.Equal(dec("-1.00")) {
		t.Fatalf("expected -1.00, got %s", lines[0].Amount)
	}
	if !lines[0].RateOnFVFPercent.Equal(dec("-10")) {
		t.Fatalf("expected -10%%, got %s", lines[0].RateOnFVFPercent)
	}
}

func TestAdjustFVF_SurchargesStack(t *testing.T) {
	s := testSchedule(t)
	in := baseInput()
	in.SellerStanding = StandingBelowStandard
	in.HighDisputeRate = true

	// 10 + 0.50 + 0.60 = 11.10
	lines, effective := adjustFVF(in, s.Adjustments, dec("10.00"))
	if !effective.Equal(dec("11.10")) {
		t.Fatalf("expected 11.10, got %s", effective)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 adjustment lines, got %d", len(lines))
	}
}

func TestAdjustFVF_ClampedAtZero(t *testing.T) {
	s := testSchedule(t)
	s.Adjustments.TopRatedDiscountRate = dec("-1.50")
	in := baseInput()
	in.SellerStanding = StandingTopRated

	_, effective := adjustFVF(in, s.Adjustments, dec("10.00"))
	if !effective.IsZero() {
		t.Fatalf("expected fee clamped at zero, got %s", effective)
	}
}
