package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(couponsIssuedTotal, couponsSkippedTotal, issuanceRunsTotal) }

var couponsIssuedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "birthday_coupons_issued_total",
		Help: "Total number of birthday coupons minted and logged.",
	},
)

var couponsSkippedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "birthday_coupons_skipped_total",
		Help: "Eligible users skipped during the daily run, labeled by reason.",
	},
	[]string{"reason"}, // 'already_issued', 'unsubscribed', 'engine_error', 'store_error', 'log_error'
)

var issuanceRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "birthday_issuance_runs_total",
		Help: "Daily issuance job invocations, labeled by outcome.",
	},
	[]string{"outcome"}, // 'completed', 'locked', 'failed'
)

func IncCouponIssued() { couponsIssuedTotal.Inc() }

func IncCouponSkipped(reason string) { couponsSkippedTotal.WithLabelValues(norm(reason)).Inc() }

func IncIssuanceRun(outcome string) { issuanceRunsTotal.WithLabelValues(norm(outcome)).Inc() }
