package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// polyswap_backend_quote_total
	//
	// counter of quote attempts per backend
	//
	// Has the following labels:
	// * backend - the backend id
	// * outcome - "ok" or the error class
	BackendQuoteMetricName = "polyswap_backend_quote_total"

	// polyswap_backend_quote_duration_seconds
	//
	// histogram of quote latency per backend
	BackendQuoteDurationMetricName = "polyswap_backend_quote_duration_seconds"

	// polyswap_swap_total
	//
	// counter of finished swap requests
	//
	// Has the following labels:
	// * backend - the winning backend id, empty if quoting failed
	// * state - terminal state
	// * reason - failure reason, empty on success
	SwapMetricName = "polyswap_swap_total"

	// polyswap_approval_total
	//
	// counter of allowance checks by outcome ("sufficient", "approved", "failed")
	ApprovalMetricName = "polyswap_approval_total"

	BackendQuoteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: BackendQuoteMetricName,
			Help: "counter of quote attempts per backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	BackendQuoteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    BackendQuoteDurationMetricName,
			Help:    "histogram of quote latency per backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	SwapCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: SwapMetricName,
			Help: "counter of finished swap requests by backend, terminal state and failure reason",
		},
		[]string{"backend", "state", "reason"},
	)

	ApprovalCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ApprovalMetricName,
			Help: "counter of allowance checks by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(BackendQuoteCounter)
	prometheus.MustRegister(BackendQuoteDuration)
	prometheus.MustRegister(SwapCounter)
	prometheus.MustRegister(ApprovalCounter)
}
