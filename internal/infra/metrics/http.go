package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(httpDuration) }

var httpDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status class.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)

func ObserveHTTPRequest(route, method, status string, elapsed time.Duration) {
	httpDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}
