// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the scanner pipeline.
type Metrics struct {
	// Fetch metrics
	BlocksFetched     prometheus.Counter
	BlocksFailed      prometheus.Counter
	TxsFetched        prometheus.Counter
	FetchItemFailures prometheus.Counter

	// Extraction metrics
	SwapsExtracted  prometheus.Counter
	TxsSkipped      *prometheus.CounterVec
	ExtractionSlots prometheus.Gauge

	// Detection metrics
	SandwichesDetected prometheus.Counter

	// Profit metrics
	RecordsAttributed  prometheus.Counter
	MisalignedSkipped  prometheus.Counter
	PriceLookupsFailed prometheus.Counter

	// Latency metrics
	RPCCallLatency *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sandwich_lab"
	}

	return &Metrics{
		BlocksFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "blocks_fetched_total",
			Help:      "Total number of blocks fetched",
		}),
		BlocksFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "blocks_failed_total",
			Help:      "Total number of block fetches that failed",
		}),
		TxsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "transactions_fetched_total",
			Help:      "Total number of transactions fetched",
		}),
		FetchItemFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "item_failures_total",
			Help:      "Total number of per-item fetch failures",
		}),
		SwapsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "swaps_extracted_total",
			Help:      "Total number of canonical swap records extracted",
		}),
		TxsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "transactions_skipped_total",
			Help:      "Total number of transactions skipped by reason",
		}, []string{"reason"}),
		ExtractionSlots: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number processed",
		}),
		SandwichesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "sandwiches_detected_total",
			Help:      "Total number of sandwich candidates detected",
		}),
		RecordsAttributed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profit",
			Name:      "records_attributed_total",
			Help:      "Total number of profit records attributed",
		}),
		MisalignedSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profit",
			Name:      "misaligned_skipped_total",
			Help:      "Total number of candidates skipped for misaligned flow",
		}),
		PriceLookupsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profit",
			Name:      "price_lookups_failed_total",
			Help:      "Total number of failed price lookup batches",
		}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
