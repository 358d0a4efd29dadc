package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(codesIssued, codeConsume) }

var codesIssued = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "activation_codes_issued_total",
		Help: "Activation codes successfully issued.",
	},
)

var codeConsume = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "activation_code_consume_total",
		Help: "Activation code consumption attempts by result.",
	},
	[]string{"result"}, // 'ok', 'invalid', 'expired'
)

func IncCodeIssued() { codesIssued.Inc() }

func IncCodeConsume(result string) { codeConsume.WithLabelValues(result).Inc() }
