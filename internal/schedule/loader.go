package schedule

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/log"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/metrics"
)

// Load reads, parses and validates a fee schedule file. A missing or
// unparsable file is fatal: no calculation can proceed without a schedule.
func Load(ctx context.Context, path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		metrics.ScheduleLoadsTotal.WithLabelValues("error").Inc()
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(path)
		}
		return nil, NewParseError(path, err)
	}

	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		metrics.ScheduleLoadsTotal.WithLabelValues("error").Inc()
		return nil, NewParseError(path, err)
	}

	if err := s.Init(ctx); err != nil {
		metrics.ScheduleLoadsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	metrics.ScheduleLoadsTotal.WithLabelValues("ok").Inc()
	log.Info(ctx, "Fee schedule loaded",
		zap.String("path", path),
		zap.String("generated_on", s.GeneratedOn),
		zap.String("currency", s.Currency),
		zap.Int("fee_groups", len(s.FinalValueFees)),
		zap.Int("mapped_categories", len(s.categoryGroup)),
		zap.Int("vehicle_categories", len(s.categoryVehicle)))

	return &s, nil
}

// Loader memoizes a schedule for the process lifetime. The schedule never
// changes during execution, so the first successful or failed load is
// sticky.
type Loader struct {
	path string

	once sync.Once
	s    *Schedule
	err  error
}

// NewLoader creates a loader for the given schedule file path
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Get returns the memoized schedule, loading it on first use
func (l *Loader) Get(ctx context.Context) (*Schedule, error) {
	l.once.Do(func() {
		l.s, l.err = Load(ctx, l.path)
	})
	return l.s, l.err
}
