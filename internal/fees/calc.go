package fees

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/log"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/metrics"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/schedule"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/tracing"
)

// ErrNoSchedule is returned when a calculation is attempted without a
// loaded fee schedule.
var ErrNoSchedule = errors.New("fees: no fee schedule loaded")

// Calculate is the single entry point of the engine: it maps one SaleInput
// and a loaded schedule to a full Breakdown. It is a pure function of its
// inputs; the schedule is read-only, so concurrent calls are safe.
func Calculate(ctx context.Context, in SaleInput, s *schedule.Schedule) (Breakdown, error) {
	if s == nil {
		return Breakdown{}, ErrNoSchedule
	}

	ctx, span := tracing.StartSpan(ctx, "fees.Calculate")
	defer span.End()
	start := time.Now()

	b := Aggregate(ctx, in, s)
	computeProfit(in, &b)

	metrics.CalculationDuration.Observe(time.Since(start).Seconds())
	metrics.CalculationsTotal.WithLabelValues(b.FVFGroup, "ok").Inc()

	log.Debug(ctx, "Fee calculation completed",
		zap.Int64("category_id", in.CategoryID),
		zap.String("fvf_group", b.FVFGroup),
		zap.String("sale_total", b.SaleTotal.String()),
		zap.String("total_fees_pre_tax", b.TotalFeesPreTax.String()),
		zap.String("net_profit", b.NetProfit.String()),
		zap.Int("warnings", len(b.Warnings)))

	return b, nil
}
