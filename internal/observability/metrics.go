package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	workflowRequestsTotal  *prometheus.CounterVec
	workflowLatencySeconds *prometheus.HistogramVec
	ledgerWritesTotal      *prometheus.CounterVec
	pinsTotal              *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the workflow API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		workflowRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_requests_total",
			Help: "Total number of workflow API requests served.",
		}, []string{"method", "route", "status"})

		workflowLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workflow_latency_seconds",
			Help:    "Latency distribution for workflow API requests.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "route"})

		ledgerWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_writes_total",
			Help: "Total number of ledger write transactions submitted, by contract method.",
		}, []string{"op", "outcome"})

		pinsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_pins_total",
			Help: "Total number of content-store pin attempts.",
		}, []string{"outcome"})

		prometheus.MustRegister(workflowRequestsTotal, workflowLatencySeconds, ledgerWritesTotal, pinsTotal)
	})
}

// WorkflowRequests exposes the request counter.
func WorkflowRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return workflowRequestsTotal
}

// WorkflowLatency exposes the latency histogram.
func WorkflowLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return workflowLatencySeconds
}

// LedgerWrites exposes the ledger write counter.
func LedgerWrites() *prometheus.CounterVec {
	RegisterMetrics()
	return ledgerWritesTotal
}

// Pins exposes the pin attempt counter.
func Pins() *prometheus.CounterVec {
	RegisterMetrics()
	return pinsTotal
}
