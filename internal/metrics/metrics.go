package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fastfood",
		Name:      "orders_placed_total",
		Help:      "Total number of successfully placed orders.",
	})
	OrdersFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastfood",
		Name:      "orders_failed_total",
		Help:      "Total number of rejected or failed checkouts.",
	}, []string{"reason"})
	CheckoutDurationMS = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fastfood",
		Name:      "checkout_duration_ms",
		Help:      "Order placement latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
)

func Init() {
	prometheus.MustRegister(OrdersPlaced, OrdersFailed, CheckoutDurationMS)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
