// Package metrics exports ledger and RPC metrics in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockcal"

// Recorder owns its registry so several recorders can coexist in tests
type Recorder struct {
	registry *prometheus.Registry

	transactions   *prometheus.CounterVec
	applyDuration  *prometheus.HistogramVec
	storageErrors  *prometheus.CounterVec
	discrepancies  prometheus.Gauge
	lastReconciled prometheus.Gauge
	rpcs           *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
	exports        *prometheus.CounterVec
}

// NewRecorder creates a recorder with process and Go runtime collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_transactions_total",
			Help:      "Ledger transactions by type and outcome.",
		}, []string{"type", "result"}),
		applyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_apply_duration_seconds",
			Help:      "Time spent applying a ledger transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Storage failures by operation.",
		}, []string{"operation"}),
		discrepancies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconciliation_discrepancies",
			Help:      "Discrepancies found by the last reconciliation run.",
		}),
		lastReconciled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconciliation_last_run_timestamp_seconds",
			Help:      "Unix time of the last reconciliation run.",
		}),
		rpcs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Unary RPCs by method and status code.",
		}, []string{"method", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "Unary RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_exports_total",
			Help:      "Ledger exports by encoding and outcome.",
		}, []string{"encoding", "result"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.transactions,
		r.applyDuration,
		r.storageErrors,
		r.discrepancies,
		r.lastReconciled,
		r.rpcs,
		r.rpcDuration,
		r.exports,
	)
	return r
}

// ObserveTransaction records one ApplyTransaction outcome.
// result is one of applied, rejected, not_found, storage_error.
func (r *Recorder) ObserveTransaction(txType, result string, duration time.Duration) {
	if txType == "" {
		txType = "unknown"
	}
	r.transactions.WithLabelValues(txType, result).Inc()
	r.applyDuration.WithLabelValues(txType).Observe(duration.Seconds())
}

// StorageFailure counts a failed persistence operation
func (r *Recorder) StorageFailure(operation string) {
	r.storageErrors.WithLabelValues(operation).Inc()
}

// ObserveReconciliation publishes the result of an audit run
func (r *Recorder) ObserveReconciliation(discrepancies int, at time.Time) {
	r.discrepancies.Set(float64(discrepancies))
	r.lastReconciled.Set(float64(at.Unix()))
}

// ObserveRPC records a unary call
func (r *Recorder) ObserveRPC(method, code string, duration time.Duration) {
	r.rpcs.WithLabelValues(method, code).Inc()
	r.rpcDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveExport records a ledger export attempt
func (r *Recorder) ObserveExport(encoding string, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	r.exports.WithLabelValues(encoding, result).Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
