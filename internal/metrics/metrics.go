package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Calculation metrics
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fee_calculations_total",
			Help: "Total number of fee calculations",
		},
		[]string{"fvf_group", "status"},
	)

	CalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fee_calculation_duration_seconds",
			Help:    "Fee calculation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
		},
	)

	CalculationWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fee_calculation_warnings_total",
			Help: "Total number of non-fatal calculation warnings",
		},
		[]string{"reason"},
	)

	// Schedule metrics
	ScheduleLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fee_schedule_loads_total",
			Help: "Total number of fee schedule load attempts",
		},
		[]string{"status"},
	)

	ScheduleVehicleEntriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fee_schedule_vehicle_entries_skipped_total",
			Help: "Vehicle entries skipped during schedule load due to missing fields",
		},
	)
)
