package generator

import "github.com/prometheus/client_golang/prometheus"

var (
	// callsTotal counts completions by task and outcome (ok, upstream_error, invalid_output).
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generator_calls_total",
			Help: "Total number of language model calls by task and outcome.",
		},
		[]string{"task", "outcome"},
	)

	// callLatency records completion latency in seconds by task. Model calls
	// are slow, so buckets extend to two minutes.
	callLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generator_call_duration_seconds",
			Help:    "Duration of language model calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"task"},
	)
)

func init() {
	prometheus.MustRegister(callsTotal, callLatency)
}
