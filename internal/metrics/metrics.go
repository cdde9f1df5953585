// Package metrics exposes operational counters for moderation and broadcast
// outcomes, served at /metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CompletionsModerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oni_completions_moderated_total",
		Help: "Task completions resolved by the admin, by outcome.",
	}, []string{"outcome"})

	PaymentsModerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oni_payments_moderated_total",
		Help: "Withdrawal requests resolved by the admin, by outcome.",
	}, []string{"outcome"})

	WithdrawalRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oni_withdrawal_requests_total",
		Help: "Withdrawal requests created.",
	})

	BroadcastDeliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oni_broadcast_deliveries_total",
		Help: "Broadcast delivery attempts, by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(CompletionsModerated, PaymentsModerated, WithdrawalRequests, BroadcastDeliveries)
}

// Serve blocks serving the prometheus handler on the given port.
func Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
