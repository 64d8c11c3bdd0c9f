package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(redemptionsTotal) }

var redemptionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "birthday_coupon_redemptions_total",
		Help: "Redemption correlation outcomes reported by the order pipeline.",
	},
	[]string{"outcome"}, // 'redeemed', 'duplicate', 'unknown_code', 'error'
)

func IncRedemption(outcome string) {
	redemptionsTotal.WithLabelValues(norm(outcome)).Inc()
}
