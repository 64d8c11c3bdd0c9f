package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(mailSendsTotal) }

var mailSendsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "birthday_mail_sends_total",
		Help: "Birthday coupon emails handed to the transport, labeled by status.",
	},
	[]string{"status"}, // 'sent', 'failed'
)

func IncMailSend(status string) {
	mailSendsTotal.WithLabelValues(norm(status)).Inc()
}
