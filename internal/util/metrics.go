package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SchedulesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schedules_started_total",
		Help: "Total number of schedules moved to ongoing",
	})

	SchedulesCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schedules_cancelled_total",
		Help: "Total number of schedules cancelled",
	})

	SchedulesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schedules_completed_total",
		Help: "Total number of schedules completed",
	})

	CompletionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_completions_failed_total",
		Help: "Total number of failed completion attempts",
	}, []string{"reason"})

	BookingsSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_settled_total",
		Help: "Total number of bookings settled by completions",
	})

	LedgerAccrualsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_accruals_total",
		Help: "Total number of ledger accruals written",
	}, []string{"partner_type"})

	LedgerAmountAccrued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_amount_accrued_total",
		Help: "Monetary amount accrued to the revenue ledger",
	}, []string{"partner_type"})

	LineItemsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "line_items_skipped_total",
		Help: "Line items skipped because a service did not resolve",
	}, []string{"kind"})

	CompletionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_completion_latency_seconds",
		Help:    "Latency of schedule completion transactions",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
