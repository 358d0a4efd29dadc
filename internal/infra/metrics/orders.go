package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(ordersCreated, orderValue, orderCreateFailures) }

var ordersCreated = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully created.",
	},
)

var orderValue = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "orders_value_total",
		Help: "Cumulative total amount of created orders.",
	},
)

var orderCreateFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "orders_create_failures_total",
		Help: "Order creation attempts rolled back, by cause.",
	},
	[]string{"cause"}, // 'invalid', 'stock', 'other'
)

func IncOrderCreated(total float64) {
	ordersCreated.Inc()
	orderValue.Add(total)
}

func IncOrderCreateFailure(cause string) {
	orderCreateFailures.WithLabelValues(cause).Inc()
}
